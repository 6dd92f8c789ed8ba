// stub-api é um servidor local que imita as rotas da API Strava usadas nos
// testes manuais do stravan: aponte STRAVAN_V*_BASE_URL para ele.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stravan-client/client/logging"
)

func main() {
	logger, err := logging.New(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: logging.FormatText,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "stub api listening", "addr", addr,
		"v1", "http://localhost"+addr+"/api/v1/", "v2", "http://localhost"+addr+"/api/v2/")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "server error", "error", err.Error())
		os.Exit(1)
	}
}
