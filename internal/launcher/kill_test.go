package launcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testLogger struct {
	lines []string
}

func (l *testLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *testLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *testLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func withProbes(t *testing.T, running func(string) bool, term, kill func(string) error) {
	t.Helper()
	origRunning, origTerm, origKill := processRunning, terminate, forceKill
	processRunning = running
	terminate = term
	forceKill = kill
	t.Cleanup(func() {
		processRunning = origRunning
		terminate = origTerm
		forceKill = origKill
	})
}

func TestKillAllGracefulTerminate(t *testing.T) {
	alive := map[string]bool{"GTA5.exe": true, "ragemp_v.exe": true}

	withProbes(t,
		func(name string) bool { return alive[name] },
		func(name string) error {
			delete(alive, name)
			return nil
		},
		func(name string) error {
			t.Fatalf("force kill should not run, terminate handled %s", name)
			return nil
		},
	)

	killed, survivors := KillAll(context.Background(), []string{"GTA5.exe", "ragemp_v.exe", "Launcher.exe"}, nil)

	assert.ElementsMatch(t, []string{"GTA5.exe", "ragemp_v.exe"}, killed)
	assert.Empty(t, survivors)
}

func TestKillAllEscalatesToForceKill(t *testing.T) {
	alive := map[string]bool{"GTA5.exe": true}

	withProbes(t,
		func(name string) bool { return alive[name] },
		func(name string) error { return errors.New("access denied") },
		func(name string) error {
			delete(alive, name)
			return nil
		},
	)

	killed, survivors := KillAll(context.Background(), []string{"GTA5.exe"}, nil)

	assert.Equal(t, []string{"GTA5.exe"}, killed)
	assert.Empty(t, survivors)
}

func TestKillAllReportsSurvivors(t *testing.T) {
	withProbes(t,
		func(name string) bool { return name == "RockstarService.exe" },
		func(name string) error { return nil },
		func(name string) error { return errors.New("still denied") },
	)

	log := &testLogger{}
	killed, survivors := KillAll(context.Background(), []string{"RockstarService.exe"}, log)

	assert.Empty(t, killed)
	assert.Equal(t, []string{"RockstarService.exe"}, survivors)
	assert.NotEmpty(t, log.lines)
}

func TestKillAllSurvivorNotCountedAsKilled(t *testing.T) {
	// Terminate claims success but the process never dies.
	withProbes(t,
		func(name string) bool { return true },
		func(name string) error { return nil },
		func(name string) error { return nil },
	)

	killed, survivors := KillAll(context.Background(), []string{"GTA5.exe"}, nil)

	assert.Empty(t, killed)
	assert.Equal(t, []string{"GTA5.exe"}, survivors)
}

func TestKillAllNothingRunning(t *testing.T) {
	withProbes(t,
		func(name string) bool { return false },
		func(name string) error {
			t.Fatal("terminate should not run")
			return nil
		},
		func(name string) error {
			t.Fatal("force kill should not run")
			return nil
		},
	)

	killed, survivors := KillAll(context.Background(), GameProcesses, nil)
	assert.Empty(t, killed)
	assert.Empty(t, survivors)
}
