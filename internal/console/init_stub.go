//go:build !windows
// +build !windows

package console

// Init is a no-op outside Windows. Unix terminals handle UTF-8 and ANSI
// escapes natively.
func Init() {}
