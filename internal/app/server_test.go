//go:build !integration

package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Timeouts(t *testing.T) {
	tests := []struct {
		name           string
		requestTimeout time.Duration
		wantWrite      time.Duration
	}{
		{"no request deadline", 0, defaultWriteTimeout},
		{"short deadline keeps default", 5 * time.Second, defaultWriteTimeout},
		{"long deadline gets headroom", 30 * time.Second, 35 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(http.NotFoundHandler(), "8080", tt.requestTimeout)

			assert.Equal(t, ":8080", s.httpServer.Addr)
			assert.Equal(t, tt.wantWrite, s.httpServer.WriteTimeout)
			assert.Equal(t, 5*time.Second, s.httpServer.ReadHeaderTimeout)
			assert.Equal(t, shutdownTimeout, s.shutdownTimeout)
		})
	}
}

func TestServer_ServeUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "advice")
	}), "0", 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "advice", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_DrainsInFlightRequest(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	s := NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}), "0", 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	respCh := make(chan int, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/advice/calculate", "application/json", nil)
		if err != nil {
			respCh <- 0
			return
		}
		_ = resp.Body.Close()
		respCh <- resp.StatusCode
	}()

	<-started
	cancel()

	assert.Equal(t, http.StatusOK, <-respCh)
	assert.NoError(t, <-done)
}

func TestServer_RunListenError(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), "not-a-port", 0)

	err := s.Run(context.Background())

	assert.Error(t, err)
}

func TestServer_ShutdownIdle(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), "0", 0)
	assert.NoError(t, s.Shutdown())
}
