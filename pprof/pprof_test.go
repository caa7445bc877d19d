package pprof

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestStartProfilingHttpServer(t *testing.T) {
	config := Config{
		ProfilingHost: "127.0.0.1",
		ProfilingPort: freePort(t),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartProfilingHTTPServer(ctx, config) }()

	address := config.Address()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", address)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond, "failed to connect to profiling server")

	endpoints := []string{
		ProfilingIndexEndpoint,
		ProfilingCmdEndpoint,
		ProfilingSymbolEndpoint,
	}
	for _, endpoint := range endpoints {
		resp, err := http.Get("http://" + address + endpoint)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status code for endpoint %s", endpoint)
		resp.Body.Close()
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("profiling server did not stop")
	}
}

func TestStartProfilingHttpServerAddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := Config{ProfilingHost: "127.0.0.1", ProfilingPort: l.Addr().(*net.TCPAddr).Port}
	err = StartProfilingHTTPServer(context.Background(), cfg)
	require.ErrorContains(t, err, "failed to create tcp listener for profiling")
}
