package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDev(t *testing.T) {
	orig := BuildVersion
	defer func() { BuildVersion = orig }()

	BuildVersion = "dev"
	assert.True(t, IsDev())

	BuildVersion = ""
	assert.True(t, IsDev())

	BuildVersion = "DEV"
	assert.True(t, IsDev())

	BuildVersion = "1.4.0"
	assert.False(t, IsDev())
}

func TestCurrentReleaseBuild(t *testing.T) {
	orig := BuildVersion
	defer func() { BuildVersion = orig }()

	BuildVersion = "1.4.0"
	assert.Equal(t, "1.4.0", Current(t.TempDir()))
}

func TestCurrentDevBuildWithoutGit(t *testing.T) {
	orig := BuildVersion
	defer func() { BuildVersion = orig }()

	BuildVersion = "dev"
	// Temp dir is not a git checkout, so no hash suffix.
	assert.Equal(t, "dev", Current(t.TempDir()))
}
