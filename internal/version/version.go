package version

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Injected at build time via -ldflags. BuildVersion stays "dev" for
// uninstrumented `go build` / `go run` invocations.
var (
	BuildVersion = "dev"
	BuildCommit  = ""
	SentryDSN    = ""
)

// IsDev reports whether this is a development build.
func IsDev() bool {
	v := strings.TrimSpace(BuildVersion)
	return v == "" || strings.EqualFold(v, "dev")
}

// Current returns the version string to report to the server. Release builds
// report BuildVersion as-is; dev builds append the short git hash of appDir
// when one is available.
func Current(appDir string) string {
	if !IsDev() {
		return BuildVersion
	}

	hash := gitShortHash(appDir)
	if hash == "" {
		return BuildVersion
	}
	return BuildVersion + "-" + hash
}

func gitShortHash(dir string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
