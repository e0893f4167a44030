// Command devcms runs a local stand-in for the Directus REST API backed by SQLite.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/complai/internal/devcms"
	"github.com/complai/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger, err := logging.New("development", getenv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)

	gdb, err := devcms.Open(getenv("DEVCMS_DB", "devcms.db"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = devcms.Close(gdb) }()

	if err := devcms.Seed(gdb, time.Now()); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	addr := getenv("DEVCMS_ADDR", ":8055")
	token := os.Getenv("DEVCMS_TOKEN")
	srv := &http.Server{
		Addr:              addr,
		Handler:           devcms.NewServer(gdb, token, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("devcms listening", zap.String("addr", addr), zap.Bool("token", token != ""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("devcms stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
