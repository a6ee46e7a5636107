package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.Equal(t, DefaultReleaseSlug, s.ReleaseSlug)
	assert.Equal(t, 30*time.Second, s.HeartbeatInterval())
	assert.Equal(t, 300*time.Second, s.UpdateCheckInterval())
	assert.Empty(t, s.Build.Command)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"api_url": "http://test.local/api",
		"heartbeat_interval": 10,
		"update_check_interval": 60,
		"build": {"command": "go build -o dist/VirtBot ."}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfg), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://test.local/api", s.APIURL)
	assert.Equal(t, 10*time.Second, s.HeartbeatInterval())
	assert.Equal(t, 60*time.Second, s.UpdateCheckInterval())
	assert.Equal(t, "go build -o dist/VirtBot .", s.Build.Command)
	// File omits the slug, default survives.
	assert.Equal(t, DefaultReleaseSlug, s.ReleaseSlug)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"api_url": "http://file.local/api"}`), 0o644))

	t.Setenv("VIRTBOT_API_URL", "http://env.local/api")
	t.Setenv("VIRTBOT_RELEASE_SLUG", "leetpc/virtbot-beta")
	t.Setenv("GTA5RP_LOGIN", "farmer01")
	t.Setenv("GTA5RP_PASSWORD", "hunter2")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://env.local/api", s.APIURL)
	assert.Equal(t, "leetpc/virtbot-beta", s.ReleaseSlug)
	assert.Equal(t, "farmer01", s.GTA5RPLogin)
	assert.Equal(t, "hunter2", s.GTA5RPPassword)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadNonPositiveIntervals(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"heartbeat_interval": -5, "update_check_interval": 0}`), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 30, s.HeartbeatSeconds)
	assert.Equal(t, 300, s.UpdateCheckSeconds)
}

func TestAppDirEnvOverride(t *testing.T) {
	t.Setenv("VIRTBOT_APP_DIR", "/opt/virtbot")
	assert.Equal(t, "/opt/virtbot", AppDir())
}

func TestLayoutEnsure(t *testing.T) {
	root := t.TempDir()
	dirs := Layout(root)

	assert.Equal(t, root, dirs.App)
	assert.Equal(t, filepath.Join(root, "data"), dirs.Data)
	assert.Equal(t, filepath.Join(root, "logs"), dirs.Logs)
	assert.Equal(t, filepath.Join(root, "screenshots"), dirs.Screenshots)
	assert.Equal(t, filepath.Join(root, "dist"), dirs.Dist)

	require.NoError(t, dirs.Ensure())
	for _, dir := range []string{dirs.Data, dirs.Logs, dirs.Screenshots} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	// Dist is created by the build, not Ensure.
	_, err := os.Stat(dirs.Dist)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadGamePathsDefaults(t *testing.T) {
	paths, err := LoadGamePaths(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultGamePaths(), paths)
}

func TestLoadGamePathsPartialOverride(t *testing.T) {
	dir := t.TempDir()
	override := `{"ragemp_dir": "D:\\RageMP", "ragemp_updater": "D:\\RageMP\\updater.exe"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paths.json"), []byte(override), 0o644))

	paths, err := LoadGamePaths(dir)
	require.NoError(t, err)

	assert.Equal(t, `D:\RageMP`, paths.RageMPDir)
	assert.Equal(t, `D:\RageMP\updater.exe`, paths.RageMPUpdater)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultGamePaths().GTAExe, paths.GTAExe)
	assert.Equal(t, DefaultGamePaths().RockstarLauncher, paths.RockstarLauncher)
}

func TestLoadGamePathsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paths.json"), []byte("nope"), 0o644))

	paths, err := LoadGamePaths(dir)
	require.Error(t, err)
	// Defaults still come back so the caller can fall back.
	assert.Equal(t, DefaultGamePaths(), paths)
}
