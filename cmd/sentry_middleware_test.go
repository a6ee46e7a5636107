package cmd

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapCommandWithSentryKeepsRunEResult(t *testing.T) {
	want := errors.New("heartbeat timeout")
	ran := false
	c := &cobra.Command{
		Use: "beat",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			return want
		},
	}

	WrapCommandWithSentry(c)

	err := c.RunE(c, nil)
	assert.True(t, ran)
	assert.Equal(t, want, err)
}

func TestWrapCommandWithSentryRepanicsFromRunE(t *testing.T) {
	c := &cobra.Command{
		Use: "beat",
		RunE: func(cmd *cobra.Command, args []string) error {
			panic("boom")
		},
	}

	WrapCommandWithSentry(c)

	// The wrapper reports the panic but the process must still die visibly.
	require.Panics(t, func() { _ = c.RunE(c, nil) })
}

func TestWrapCommandWithSentryRepanicsFromRun(t *testing.T) {
	c := &cobra.Command{
		Use: "help-like",
		Run: func(cmd *cobra.Command, args []string) {
			panic("boom")
		},
	}

	WrapCommandWithSentry(c)

	require.Panics(t, func() { c.Run(c, nil) })
}
