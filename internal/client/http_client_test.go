package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshsync/internal/geometry"
)

func clientFor(t *testing.T, srv *httptest.Server, timeout time.Duration) *HTTPClient {
	t.Helper()
	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return NewHTTPClient(host, port, timeout)
}

var snap = geometry.Snapshot{Faces: geometry.WireMesh{
	{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
}}

func TestCommit_Success(t *testing.T) {
	var gotBody []byte
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := clientFor(t, srv, 0).Commit(context.Background(), snap)

	require.NoError(t, err)
	assert.Equal(t, "/model", gotPath)
	assert.Equal(t, "application/json", gotType)
	decoded, err := geometry.UnmarshalSnapshot(gotBody)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestCommit_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"decode snapshot: bad"}`))
	}))
	defer srv.Close()

	err := clientFor(t, srv, 0).Commit(context.Background(), snap)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Contains(t, statusErr.Body, "decode snapshot")
}

func TestCommit_PeerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := clientFor(t, srv, time.Second)
	srv.Close()

	err := c.Commit(context.Background(), snap)

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, c.BaseURL(), connErr.Addr)
}

func TestCommit_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := clientFor(t, srv, 0).Commit(ctx, snap)

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewHTTPClient_BaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"127.0.0.1", "http://127.0.0.1:8001"},
		{"peer.local", "http://peer.local:8001"},
		{"::1", "http://[::1]:8001"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, NewHTTPClient(tt.host, 8001, 0).BaseURL())
		})
	}
}

func TestCommit_IPv6Loopback(t *testing.T) {
	ln, err := net.Listen("tcp", "[::1]:0")
	if err != nil {
		t.Skip("IPv6 loopback unavailable")
	}
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Listener.Close()
	srv.Listener = ln
	srv.Start()
	defer srv.Close()

	err = clientFor(t, srv, time.Second).Commit(context.Background(), snap)

	assert.NoError(t, err)
}
