//go:build windows
// +build windows

package console

import (
	"os"

	"golang.org/x/sys/windows"
)

// Init puts the console into UTF-8 + VT mode so colored status output
// renders on stock cmd.exe, where the farm boxes run the client.
func Init() {
	_ = windows.SetConsoleOutputCP(65001)
	_ = windows.SetConsoleCP(65001)

	const ENABLE_VIRTUAL_TERMINAL_PROCESSING = 0x0004
	handle := windows.Handle(os.Stdout.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err == nil {
		mode |= ENABLE_VIRTUAL_TERMINAL_PROCESSING
		_ = windows.SetConsoleMode(handle, mode)
	}
}
