package cmd

import "strings"

// getErrorType categorizes errors for Sentry grouping.
func getErrorType(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "blocked"):
		return "ip_blocked"

	case strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "dial") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "no route to host"):
		return "network_error"

	case strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "404"):
		return "not_found"

	// "updater" is the RageMP updater, so launch outranks update here.
	case strings.Contains(errStr, "launch") ||
		strings.Contains(errStr, "updater") ||
		strings.Contains(errStr, "ragemp") ||
		strings.Contains(errStr, "gta"):
		return "launch_error"

	case strings.Contains(errStr, "update") ||
		strings.Contains(errStr, "checksum") ||
		strings.Contains(errStr, "staged"):
		return "update_error"

	case strings.Contains(errStr, "git"):
		return "git_error"

	case strings.Contains(errStr, "taskkill") ||
		strings.Contains(errStr, "process") ||
		strings.Contains(errStr, "supervisor"):
		return "process_error"

	case strings.Contains(errStr, "api") ||
		strings.Contains(errStr, "status") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504"):
		return "api_error"

	case strings.Contains(errStr, "config") ||
		strings.Contains(errStr, "configuration"):
		return "config_error"

	case strings.Contains(errStr, "build") ||
		strings.Contains(errStr, "artifact") ||
		strings.Contains(errStr, "dist"):
		return "build_error"

	case strings.Contains(errStr, "json") ||
		strings.Contains(errStr, "unmarshal") ||
		strings.Contains(errStr, "parse"):
		return "parsing_error"

	case strings.Contains(errStr, "permission") ||
		strings.Contains(errStr, "access is denied"):
		return "permission_error"

	default:
		return "unknown_error"
	}
}
