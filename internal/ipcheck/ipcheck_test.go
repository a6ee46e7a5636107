package ipcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlockedSingles(t *testing.T) {
	assert.True(t, IsBlocked("212.220.204.72"))
	assert.True(t, IsBlocked("217.73.89.128"))
	assert.False(t, IsBlocked("8.8.8.8"))
}

func TestIsBlockedRanges(t *testing.T) {
	assert.True(t, IsBlocked("79.142.197.0"))
	assert.True(t, IsBlocked("79.142.197.200"))
	assert.True(t, IsBlocked("79.142.197.255"))
	assert.False(t, IsBlocked("79.142.198.0"))

	assert.True(t, IsBlocked("217.73.88.1"))
	assert.True(t, IsBlocked("217.73.91.254"))
	assert.False(t, IsBlocked("217.73.92.1"))

	assert.True(t, IsBlocked("185.70.128.44"))
	assert.False(t, IsBlocked("185.71.0.1"))
}

func TestIsBlockedUnparseable(t *testing.T) {
	assert.False(t, IsBlocked(""))
	assert.False(t, IsBlocked("not-an-ip"))
}

func TestExternalIP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("203.0.113.9\n"))
	}))
	defer server.Close()
	t.Setenv("VIRTBOT_IP_LOOKUP_URL", server.URL)

	assert.Equal(t, "203.0.113.9", ExternalIP(context.Background()))
}

func TestExternalIPServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	t.Setenv("VIRTBOT_IP_LOOKUP_URL", server.URL)

	assert.Equal(t, "", ExternalIP(context.Background()))
}

func TestCheckAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("198.51.100.7"))
	}))
	defer server.Close()
	t.Setenv("VIRTBOT_IP_LOOKUP_URL", server.URL)

	status, ip := Check(context.Background())
	assert.Equal(t, StatusAllowed, status)
	assert.Equal(t, "198.51.100.7", ip)
}

func TestCheckBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("212.220.204.72"))
	}))
	defer server.Close()
	t.Setenv("VIRTBOT_IP_LOOKUP_URL", server.URL)

	status, ip := Check(context.Background())
	assert.Equal(t, StatusBlocked, status)
	assert.Equal(t, "212.220.204.72", ip)
}

func TestCheckNoInternet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections
	t.Setenv("VIRTBOT_IP_LOOKUP_URL", server.URL)

	status, ip := Check(context.Background())
	assert.Equal(t, StatusNoInternet, status)
	assert.Empty(t, ip)
}

func TestDescribe(t *testing.T) {
	assert.Contains(t, Describe(StatusAllowed, "198.51.100.7"), "198.51.100.7")
	assert.Contains(t, Describe(StatusBlocked, "212.220.204.72"), "blocked")
	assert.NotEmpty(t, Describe(StatusNoInternet, ""))
}
