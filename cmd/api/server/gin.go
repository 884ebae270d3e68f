package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SetupGinServer wraps the Gin router in an http.Server. writeTimeout must
// cover the slowest handler, which waits on the classifier.
func SetupGinServer(router http.Handler, addr string, writeTimeout time.Duration, l *zap.Logger) *http.Server {
	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Duration("write_timeout", writeTimeout),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}
