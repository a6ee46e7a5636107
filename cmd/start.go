package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leetpc/virtbot/api"
	"github.com/leetpc/virtbot/internal/autoupdate"
	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/ipcheck"
	"github.com/leetpc/virtbot/internal/launcher"
	"github.com/leetpc/virtbot/internal/logging"
	"github.com/leetpc/virtbot/internal/updatecheck"
	"github.com/leetpc/virtbot/internal/version"
)

var startNoLaunch bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the farm supervisor",
	Long:  "Launches the game through RageMP and keeps the machine reporting:\nheartbeats every 30 seconds, update checks every 5 minutes. Machines on a\nblocked IP heartbeat but never launch the game. Runs until interrupted.",
	Annotations: map[string]string{
		"skipUpdateCheck": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd.Context())
	},
}

func init() {
	startCmd.Flags().BoolVar(&startNoLaunch, "no-launch", false, "heartbeat only, do not launch the game")
	rootCmd.AddCommand(startCmd)
}

type supervisor struct {
	cfg    *config.Settings
	dirs   config.Dirs
	appDir string
	client *api.Client
	log    *logging.Logger

	ipStatus ipcheck.Status
	ip       string
}

func runStart(parentCtx context.Context) error {
	appDir := config.AppDir()
	dirs := config.Layout(appDir)
	if err := dirs.Ensure(); err != nil {
		return err
	}

	cfg, err := config.Load(appDir)
	if err != nil {
		return err
	}

	log, err := logging.New(dirs.Logs)
	if err != nil {
		return err
	}
	defer log.Close()

	lock, err := launcher.AcquireSupervisorLock(dirs.Data)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &supervisor{
		cfg:    cfg,
		dirs:   dirs,
		appDir: appDir,
		client: api.NewClient(cfg.APIURL),
		log:    log,
	}

	log.Infof("virtbot %s starting on %s", version.Current(appDir), s.client.MachineName())

	s.ipStatus, s.ip = ipcheck.Check(ctx)
	log.Infof("%s", ipcheck.Describe(s.ipStatus, s.ip))

	switch {
	case s.ipStatus == ipcheck.StatusBlocked:
		log.Warnf("blocked IP, game launch disabled")
	case startNoLaunch:
		log.Infof("--no-launch set, skipping game launch")
	case launcher.IsGameRunning():
		log.Infof("game already running, skipping launch")
	default:
		if err := launcher.LaunchGame(ctx, loadGamePaths(s), log); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("game launch failed: %v", err)
			// Keep heartbeating so the dashboard shows the failure.
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.heartbeatLoop(groupCtx) })
	group.Go(func() error { return s.updateLoop(groupCtx) })

	err = group.Wait()
	switch {
	case errors.Is(err, errRestartRequested):
		log.Infof("restarting after update")
		// The child takes over the lock, so drop ours first.
		lock.Release()
		return autoupdate.Restart(appDir)
	case errors.Is(err, context.Canceled):
		log.Infof("shutting down")
		return nil
	}
	return err
}

// errRestartRequested unwinds the supervisor after a successful update so
// the lock is released before the fresh process starts.
var errRestartRequested = errors.New("restart requested")

func loadGamePaths(s *supervisor) config.GamePaths {
	paths, err := config.LoadGamePaths(s.dirs.Data)
	if err != nil {
		s.log.Warnf("invalid paths.json, using defaults: %v", err)
		return config.DefaultGamePaths()
	}
	return paths
}

func (s *supervisor) machineStatus() string {
	if s.ipStatus == ipcheck.StatusBlocked {
		return "blocked"
	}
	if launcher.IsGameRunning() {
		return "running"
	}
	return "idle"
}

// heartbeatLoop reports the machine every heartbeat interval. A heartbeat
// is sent immediately on start so the dashboard never waits a full tick
// for a freshly booted box.
func (s *supervisor) heartbeatLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval())
	defer ticker.Stop()

	s.beat(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.beat(ctx)
		}
	}
}

func (s *supervisor) beat(ctx context.Context) {
	beatCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	resp, err := s.client.Heartbeat(beatCtx, api.HeartbeatRequest{
		Name:     s.client.MachineName(),
		IP:       s.ip,
		Status:   s.machineStatus(),
		Version:  version.Current(s.appDir),
		IPStatus: string(s.ipStatus),
	})
	if err != nil {
		s.log.Warnf("heartbeat failed: %v", err)
		return
	}
	s.log.Debugf("heartbeat ok, status=%s", s.machineStatus())
	if len(resp.Commands) > 0 {
		// Command execution is server-side tooling; the client only
		// surfaces the backlog.
		s.log.Infof("%d command(s) pending on server", len(resp.Commands))
	}
}

// updateLoop checks for a newer build every update interval and installs
// it, restarting the client on success.
func (s *supervisor) updateLoop(ctx context.Context) error {
	if os.Getenv("VIRTBOT_NO_SELFUPDATE") == "1" {
		s.log.Infof("self-update disabled (VIRTBOT_NO_SELFUPDATE=1)")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.cfg.UpdateCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.checkAndUpdate(ctx)
			if errors.Is(err, errRestartRequested) {
				return err
			}
			if err != nil && ctx.Err() == nil {
				s.log.Warnf("update check failed: %v", err)
			}
		}
	}
}

func (s *supervisor) checkAndUpdate(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if autoupdate.InGitWorkTree(s.appDir) {
		behind, err := autoupdate.GitBehind(checkCtx, s.appDir)
		if err != nil || !behind {
			return err
		}
		s.log.Infof("branch behind origin, pulling")
		if err := autoupdate.GitPull(checkCtx, s.appDir); err != nil {
			return err
		}
		s.log.Infof("updated from origin")
		return errRestartRequested
	}

	res, err := updatecheck.Check(checkCtx, s.client, version.Current(s.appDir), false)
	if err != nil || res.Skipped || !res.Outdated {
		return err
	}

	s.log.Infof("installing update %s -> %s", res.CurrentVersion, res.LatestVersion)
	err = autoupdate.PerformUpdate(checkCtx, autoupdate.Source{
		Version:  res.LatestVersion,
		AssetURL: res.DownloadURL,
		SHA256:   res.SHA256,
	})
	if err != nil {
		return fmt.Errorf("update install failed: %w", err)
	}
	s.log.Infof("update installed")
	return errRestartRequested
}
