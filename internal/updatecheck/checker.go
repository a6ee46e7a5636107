// Package updatecheck asks the control server whether a newer client build is
// available, caching the answer so the passive check before every run stays
// cheap.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/leetpc/virtbot/api"
)

const (
	cacheFileName = "latest.json"
	cacheDirName  = "virtbot"
)

var cacheTTL = 24 * time.Hour

// VersionChecker is the server call used by Check. *api.Client satisfies it.
type VersionChecker interface {
	CheckVersion(ctx context.Context, current string) (*api.VersionCheckResponse, error)
}

// Result describes the outcome of an update check.
type Result struct {
	CurrentVersion string
	LatestVersion  string
	DownloadURL    string
	SHA256         string
	CheckedAt      time.Time
	Outdated       bool
	FromCache      bool
	Skipped        bool
	Reason         string
}

// Check determines whether the server offers a newer build than current.
// With force set, the cache is bypassed and the server is always consulted.
func Check(ctx context.Context, client VersionChecker, current string, force bool) (Result, error) {
	res := Result{
		CurrentVersion: strings.TrimSpace(current),
	}

	if res.CurrentVersion == "" || strings.EqualFold(res.CurrentVersion, "dev") ||
		strings.HasPrefix(res.CurrentVersion, "dev-") {
		res.Skipped = true
		res.Reason = "development-build"
		return res, nil
	}

	currentSemver, err := parseVersion(res.CurrentVersion)
	if err != nil {
		res.Skipped = true
		res.Reason = "invalid-current-version"
		return res, nil
	}

	if !force {
		if cached, err := readCache(); err == nil && time.Since(cached.CheckedAt) < cacheTTL {
			res.LatestVersion = cached.LatestVersion
			res.DownloadURL = cached.DownloadURL
			res.SHA256 = cached.SHA256
			res.CheckedAt = cached.CheckedAt
			res.FromCache = true
			res.Outdated = isOutdated(currentSemver, cached.LatestVersion)
			return res, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	info, err := client.CheckVersion(ctx, res.CurrentVersion)
	if err != nil {
		return res, err
	}

	res.CheckedAt = time.Now()
	if info.UpdateAvailable {
		res.LatestVersion = info.Version
		res.DownloadURL = info.DownloadURL
		res.SHA256 = info.SHA256
	} else {
		res.LatestVersion = res.CurrentVersion
	}
	res.Outdated = info.UpdateAvailable && isOutdated(currentSemver, info.Version)

	// Non-fatal: a read-only cache dir just means the next check hits the
	// network again.
	_ = writeCache(cachePayload{
		CheckedAt:     res.CheckedAt,
		LatestVersion: res.LatestVersion,
		DownloadURL:   res.DownloadURL,
		SHA256:        res.SHA256,
	})

	return res, nil
}

type cachePayload struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	DownloadURL   string    `json:"download_url"`
	SHA256        string    `json:"sha256,omitempty"`
}

func isOutdated(current *semver.Version, latest string) bool {
	if strings.TrimSpace(latest) == "" {
		return false
	}
	latestSemver, err := parseVersion(latest)
	if err != nil {
		return false
	}
	return current.LessThan(latestSemver)
}

func parseVersion(v string) (*semver.Version, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, fmt.Errorf("empty version")
	}
	v = strings.TrimPrefix(v, "v")
	v = strings.TrimPrefix(v, "V")
	return semver.NewVersion(v)
}

func cachePath() (string, error) {
	if custom := os.Getenv("VIRTBOT_UPDATE_CACHE_DIR"); custom != "" {
		if err := os.MkdirAll(custom, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(custom, cacheFileName), nil
	}

	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			if err != nil {
				return "", err
			}
			return "", homeErr
		}
		dir = filepath.Join(home, ".cache")
	}

	dir = filepath.Join(dir, cacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheFileName), nil
}

func readCache() (cachePayload, error) {
	path, err := cachePath()
	if err != nil {
		return cachePayload{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cachePayload{}, err
	}
	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return cachePayload{}, err
	}
	return payload, nil
}

func writeCache(payload cachePayload) error {
	path, err := cachePath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
