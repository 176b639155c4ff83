package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
}

func TestTransport_Download(t *testing.T) {
	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("mdk-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "neoforge-mdk.zip")
	tr := NewTransport(WithUserAgent("switchyard/test"), WithBackoff(fastBackoff))

	require.NoError(t, tr.Download(context.Background(), srv.URL+"/mdk.zip", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "mdk-bytes", string(data))
	assert.NoFileExists(t, dest+".part")
	assert.Equal(t, "switchyard/test", ua.Load())
}

func TestTransport_NotFoundIsPermanent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "mdk.zip")
	err := NewTransport(WithBackoff(fastBackoff)).Download(context.Background(), srv.URL, dest)

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
	assert.NoFileExists(t, dest)
	assert.NoFileExists(t, dest+".part")
}

func TestTransport_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "mdk.zip")
	require.NoError(t, NewTransport(WithBackoff(fastBackoff)).Download(context.Background(), srv.URL, dest))
	assert.Equal(t, int32(3), hits.Load())
	assert.FileExists(t, dest)
}

func TestTransport_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "mdk.zip")
	err := NewTransport(WithBackoff(fastBackoff)).Download(context.Background(), srv.URL, dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestTransport_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "mdk.zip")
	err := NewTransport(WithBackoff(fastBackoff)).Download(ctx, srv.URL, dest)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dest)
}
