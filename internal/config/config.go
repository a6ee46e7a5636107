package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leetpc/virtbot/internal/version"
)

const (
	// DefaultAPIURL is the control server used when no override is configured.
	DefaultAPIURL = "http://gta5rp.leetpc.com/api"

	// DefaultReleaseSlug is the GitHub repository used by `virtbot self-update`
	// when the release server is unavailable.
	DefaultReleaseSlug = "leetpc/virtbot"

	configFileName = "config.json"
	pathsFileName  = "paths.json"
)

// Settings holds the client configuration. Values come from config.json in the
// app directory, overridden by environment variables. Credentials are
// environment-only and never written to disk.
type Settings struct {
	APIURL      string `json:"api_url"`
	ReleaseSlug string `json:"release_slug"`

	// Intervals in seconds.
	HeartbeatSeconds   int `json:"heartbeat_interval"`
	UpdateCheckSeconds int `json:"update_check_interval"`

	Build BuildSettings `json:"build"`

	GTA5RPLogin    string `json:"-"`
	GTA5RPPassword string `json:"-"`
	EpicLogin      string `json:"-"`
	EpicPassword   string `json:"-"`
}

// BuildSettings configures `virtbot build`.
type BuildSettings struct {
	// Command is an optional shell command run before the distribution is
	// assembled (the compile step).
	Command string `json:"command"`
}

func (s *Settings) HeartbeatInterval() time.Duration {
	return time.Duration(s.HeartbeatSeconds) * time.Second
}

func (s *Settings) UpdateCheckInterval() time.Duration {
	return time.Duration(s.UpdateCheckSeconds) * time.Second
}

// AppDir is the directory the client treats as its installation root: data,
// logs and dist all live beneath it. Release builds anchor to the executable;
// dev builds to the working directory.
func AppDir() string {
	if dir := os.Getenv("VIRTBOT_APP_DIR"); dir != "" {
		return dir
	}
	if !version.IsDev() {
		if exe, err := os.Executable(); err == nil {
			return filepath.Dir(exe)
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// Dirs describes the directory layout under the app dir.
type Dirs struct {
	App         string
	Data        string
	Logs        string
	Screenshots string
	Dist        string
}

func Layout(appDir string) Dirs {
	return Dirs{
		App:         appDir,
		Data:        filepath.Join(appDir, "data"),
		Logs:        filepath.Join(appDir, "logs"),
		Screenshots: filepath.Join(appDir, "screenshots"),
		Dist:        filepath.Join(appDir, "dist"),
	}
}

// Ensure creates the writable directories (dist is created on demand by the
// build command).
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Data, d.Logs, d.Screenshots} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config.json from appDir (if present) and applies environment
// overrides on top of defaults. A missing config file is not an error.
func Load(appDir string) (*Settings, error) {
	s := &Settings{
		APIURL:             DefaultAPIURL,
		ReleaseSlug:        DefaultReleaseSlug,
		HeartbeatSeconds:   30,
		UpdateCheckSeconds: 300,
	}

	path := filepath.Join(appDir, configFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults + env only.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(s)

	if s.APIURL == "" {
		return nil, fmt.Errorf("api_url is empty; set it in %s or VIRTBOT_API_URL", configFileName)
	}
	if s.HeartbeatSeconds <= 0 {
		s.HeartbeatSeconds = 30
	}
	if s.UpdateCheckSeconds <= 0 {
		s.UpdateCheckSeconds = 300
	}

	return s, nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv("VIRTBOT_API_URL"); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv("VIRTBOT_RELEASE_SLUG"); v != "" {
		s.ReleaseSlug = v
	}
	if v := os.Getenv("GTA5RP_LOGIN"); v != "" {
		s.GTA5RPLogin = v
	}
	if v := os.Getenv("GTA5RP_PASSWORD"); v != "" {
		s.GTA5RPPassword = v
	}
	if v := os.Getenv("EPIC_LOGIN"); v != "" {
		s.EpicLogin = v
	}
	if v := os.Getenv("EPIC_PASSWORD"); v != "" {
		s.EpicPassword = v
	}
}
