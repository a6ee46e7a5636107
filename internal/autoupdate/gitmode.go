package autoupdate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// InGitWorkTree reports whether dir is part of a git checkout. Development
// installs update via git; frozen binaries via the release server.
func InGitWorkTree(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// GitBehind fetches the remote and reports whether the local branch is behind
// its upstream.
func GitBehind(ctx context.Context, dir string) (bool, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetch := exec.CommandContext(fetchCtx, "git", "fetch")
	fetch.Dir = dir
	if err := fetch.Run(); err != nil {
		return false, fmt.Errorf("git fetch: %w", err)
	}

	statusCtx, cancel2 := context.WithTimeout(ctx, 10*time.Second)
	defer cancel2()

	status := exec.CommandContext(statusCtx, "git", "status", "-uno")
	status.Dir = dir
	out, err := status.Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.Contains(string(out), "Your branch is behind"), nil
}

// GitPull fast-forwards the checkout.
func GitPull(ctx context.Context, dir string) error {
	pullCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pull := exec.CommandContext(pullCtx, "git", "pull")
	pull.Dir = dir
	out, err := pull.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git pull: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
