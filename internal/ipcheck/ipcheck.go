// Package ipcheck classifies the machine's public IP address. Known
// home/office addresses are blocked from farming; everything else is assumed
// to be a VM and allowed.
package ipcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"os"
	"strings"
	"time"
)

// Status is the result of a public IP classification.
type Status string

const (
	StatusAllowed    Status = "allowed"
	StatusBlocked    Status = "blocked"
	StatusNoInternet Status = "no_internet"
)

const defaultLookupURL = "https://api.ipify.org"

// Known home/office addresses. Farming never runs from these.
var blockedSingles = []string{
	"212.220.204.72",
	"217.73.89.128",
}

var blockedRanges = [][2]string{
	{"79.142.197.0", "79.142.197.255"},
	{"217.73.88.0", "217.73.91.255"},
	{"185.70.0.0", "185.70.255.255"},
}

func lookupURL() string {
	if v := strings.TrimSpace(os.Getenv("VIRTBOT_IP_LOOKUP_URL")); v != "" {
		return v
	}
	return defaultLookupURL
}

// ExternalIP returns the machine's public IP, or "" when the lookup fails
// (treated as no connectivity).
func ExternalIP(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL(), nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}

// IsBlocked reports whether ip matches the blocked singles or ranges.
// Unparseable input is not blocked.
func IsBlocked(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, single := range blockedSingles {
		if blocked, err := netip.ParseAddr(single); err == nil && addr == blocked {
			return true
		}
	}
	for _, r := range blockedRanges {
		start, err1 := netip.ParseAddr(r[0])
		end, err2 := netip.ParseAddr(r[1])
		if err1 != nil || err2 != nil {
			continue
		}
		if addr.Compare(start) >= 0 && addr.Compare(end) <= 0 {
			return true
		}
	}
	return false
}

// Check resolves the public IP and classifies it.
func Check(ctx context.Context) (Status, string) {
	ip := ExternalIP(ctx)
	if ip == "" {
		return StatusNoInternet, ""
	}
	if IsBlocked(ip) {
		return StatusBlocked, ip
	}
	return StatusAllowed, ip
}

// Describe renders a status for human-facing output.
func Describe(s Status, ip string) string {
	switch s {
	case StatusAllowed:
		return fmt.Sprintf("allowed (%s)", ip)
	case StatusBlocked:
		return fmt.Sprintf("blocked home/office IP (%s)", ip)
	default:
		return "no internet connection"
	}
}
