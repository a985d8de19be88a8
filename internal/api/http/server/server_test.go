package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keepsake-server/internal/mocks"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":8000")
	assert.Equal(t, ":8000", s.Address())
}

func TestHTTPServer_StartStop(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	srv := NewHTTPServer(mux, ":0")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(ln, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start(sec) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		return string(body) == "pong"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-done)
}

func TestHTTPServer_StartListenError(t *testing.T) {
	t.Parallel()

	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":1").Return(nil, errors.New("denied"))

	err := NewHTTPServer(http.NewServeMux(), ":1").Start(sec)
	assert.ErrorContains(t, err, "failed to listen")
}
