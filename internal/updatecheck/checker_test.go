package updatecheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetpc/virtbot/api"
)

type fakeChecker struct {
	resp  *api.VersionCheckResponse
	err   error
	calls int
}

func (f *fakeChecker) CheckVersion(ctx context.Context, current string) (*api.VersionCheckResponse, error) {
	f.calls++
	return f.resp, f.err
}

func TestCheckSkipsDevBuilds(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{}

	for _, v := range []string{"dev", "", "dev-a1b2c3d"} {
		res, err := Check(context.Background(), checker, v, false)
		require.NoError(t, err)
		assert.True(t, res.Skipped, "version %q", v)
		assert.Equal(t, "development-build", res.Reason)
	}
	assert.Zero(t, checker.calls)
}

func TestCheckSkipsUnparseableVersion(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())

	res, err := Check(context.Background(), &fakeChecker{}, "not.a.version.at.all", false)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "invalid-current-version", res.Reason)
}

func TestCheckOutdated(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{resp: &api.VersionCheckResponse{
		UpdateAvailable: true,
		Version:         "1.4.0",
		DownloadURL:     "http://dist.local/VirtBot.exe",
		SHA256:          "abc123",
	}}

	res, err := Check(context.Background(), checker, "1.3.0", false)
	require.NoError(t, err)

	assert.True(t, res.Outdated)
	assert.False(t, res.FromCache)
	assert.Equal(t, "1.4.0", res.LatestVersion)
	assert.Equal(t, "http://dist.local/VirtBot.exe", res.DownloadURL)
	assert.Equal(t, "abc123", res.SHA256)
}

func TestCheckUpToDate(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{resp: &api.VersionCheckResponse{UpdateAvailable: false}}

	res, err := Check(context.Background(), checker, "v1.4.0", false)
	require.NoError(t, err)

	assert.False(t, res.Outdated)
	assert.Equal(t, "v1.4.0", res.LatestVersion)
}

func TestCheckServerOfferingOlderVersion(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{resp: &api.VersionCheckResponse{
		UpdateAvailable: true,
		Version:         "1.2.0",
	}}

	res, err := Check(context.Background(), checker, "1.3.0", false)
	require.NoError(t, err)
	// A downgrade offer is never "outdated".
	assert.False(t, res.Outdated)
}

func TestCheckUsesCacheWithinTTL(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{resp: &api.VersionCheckResponse{
		UpdateAvailable: true,
		Version:         "1.4.0",
	}}

	first, err := Check(context.Background(), checker, "1.3.0", false)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := Check(context.Background(), checker, "1.3.0", false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.True(t, second.Outdated)
	assert.Equal(t, 1, checker.calls)
}

func TestCheckForceBypassesCache(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{resp: &api.VersionCheckResponse{UpdateAvailable: false}}

	_, err := Check(context.Background(), checker, "1.3.0", false)
	require.NoError(t, err)
	_, err = Check(context.Background(), checker, "1.3.0", true)
	require.NoError(t, err)

	assert.Equal(t, 2, checker.calls)
}

func TestCheckPropagatesServerError(t *testing.T) {
	t.Setenv("VIRTBOT_UPDATE_CACHE_DIR", t.TempDir())
	checker := &fakeChecker{err: errors.New("boom")}

	_, err := Check(context.Background(), checker, "1.3.0", false)
	require.Error(t, err)
}

func TestParseVersionAcceptsVPrefix(t *testing.T) {
	v, err := parseVersion("v1.4.0")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v.String())
}
