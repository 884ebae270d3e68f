package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"image-classifier-service/internal/config"
)

func TestNew_WriteTimeoutOutlastsClassifier(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.HTTPPort = "0"
	cfg.Classifier.TimeoutSeconds = 60

	srv := New(cfg, zaptest.NewLogger(t), http.NotFoundHandler())

	assert.Equal(t, ":0", srv.HTTP.Addr)
	assert.Greater(t, srv.HTTP.WriteTimeout, 60*time.Second)
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.HTTPPort = "0"
	cfg.Classifier.TimeoutSeconds = 1

	srv := New(cfg, zaptest.NewLogger(t), http.NotFoundHandler())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	// give the listener a moment before shutting down
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
