package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorType(t *testing.T) {
	cases := []struct {
		err  string
		want string
	}{
		{"blocked home/office IP (212.220.204.72)", "ip_blocked"},
		{"dial tcp: connection refused", "network_error"},
		{"heartbeat timeout", "network_error"},
		{"release not found", "not_found"},
		{"checksum verification failed", "update_error"},
		{"git pull failed", "git_error"},
		{"ragemp updater exited early", "launch_error"},
		{"supervisor already running", "process_error"},
		{"API request failed with status 503", "api_error"},
		{"parse config.json: unexpected end of input", "config_error"},
		{"artifact VirtBot.exe is empty", "build_error"},
		{"something odd happened", "unknown_error"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, getErrorType(errors.New(tc.err)), tc.err)
	}
}
