package launcher

import (
	"context"
	"time"
)

// Injectable for tests.
var (
	processRunning = IsProcessRunning
	terminate      = terminateProcess
	forceKill      = killProcess
)

// KillAll tears down the named processes in escalating passes: graceful
// terminate, recheck, force kill, final recheck. It returns the names that
// were stopped and any survivors.
func KillAll(ctx context.Context, names []string, log Logger) (killed, survivors []string) {
	if log != nil {
		log.Infof("Pass 1: terminating processes...")
	}
	for _, name := range names {
		if !processRunning(name) {
			continue
		}
		if terminate(name) == nil {
			killed = append(killed, name)
		}
	}

	sleepCtx(ctx, 1*time.Second)

	var remaining []string
	for _, name := range names {
		if processRunning(name) {
			remaining = append(remaining, name)
		}
	}

	if len(remaining) > 0 {
		if log != nil {
			log.Infof("Pass 2: force killing %d remaining...", len(remaining))
		}
		for _, name := range remaining {
			if forceKill(name) == nil && !contains(killed, name) {
				killed = append(killed, name)
			}
		}
		sleepCtx(ctx, 500*time.Millisecond)
	}

	for _, name := range names {
		if processRunning(name) {
			survivors = append(survivors, name)
			if log != nil {
				log.Errorf("Could not kill: %s", name)
			}
		}
	}

	// A survivor was not actually killed, whatever pass 1 reported.
	killed = subtract(killed, survivors)
	return killed, survivors
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func subtract(list, remove []string) []string {
	if len(remove) == 0 {
		return list
	}
	out := list[:0]
	for _, v := range list {
		if !contains(remove, v) {
			out = append(out, v)
		}
	}
	return out
}
