package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestDisplayVersion(t *testing.T) {
	assert.Equal(t, "v1.4.0", displayVersion("1.4.0"))
	assert.Equal(t, "v1.4.0", displayVersion("v1.4.0"))
	assert.Equal(t, "V1.4.0", displayVersion("V1.4.0"))
	assert.Equal(t, "unknown", displayVersion(""))
	assert.Equal(t, "unknown", displayVersion("   "))
}

func TestShouldSkipUpdateCheckByName(t *testing.T) {
	for _, name := range []string{"help", "completion", "version", "stop", "status"} {
		cmd := &cobra.Command{Use: name}
		assert.True(t, shouldSkipUpdateCheck(cmd), name)
	}

	cmd := &cobra.Command{Use: "monitor"}
	assert.False(t, shouldSkipUpdateCheck(cmd))
}

func TestShouldSkipUpdateCheckAnnotation(t *testing.T) {
	cmd := &cobra.Command{
		Use:         "start",
		Annotations: map[string]string{"skipUpdateCheck": "true"},
	}
	assert.True(t, shouldSkipUpdateCheck(cmd))
}

func TestShouldSkipUpdateCheckParentAnnotation(t *testing.T) {
	parent := &cobra.Command{
		Use:         "completion",
		Annotations: map[string]string{"skipUpdateCheck": "true"},
	}
	child := &cobra.Command{Use: "zsh"}
	parent.AddCommand(child)

	assert.True(t, shouldSkipUpdateCheck(child))
}

func TestShouldSkipUpdateCheckNil(t *testing.T) {
	assert.False(t, shouldSkipUpdateCheck(nil))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "start", "stop", "status", "monitor", "update", "self-update", "version", "completion"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}
