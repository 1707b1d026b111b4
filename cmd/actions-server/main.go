// Command actions-server exposes the datastage actions over HTTP so an
// agent host can invoke them as callable tools.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"datastage"
	"datastage/chatfile"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
	}))

	var fetcher chatfile.Fetcher
	switch {
	case cfg.ChatFilesURL != "":
		fetcher = chatfile.NewClient(cfg.ChatFilesURL)
	case cfg.ChatFilesDir != "":
		fetcher = chatfile.NewDir(cfg.ChatFilesDir)
	}

	store, err := datastage.New(datastage.NewConfig().
		WithStorePath(cfg.StorePath).
		WithBaseDir(cfg.BaseDir).
		WithCategoricalThreshold(cfg.CategoricalThreshold).
		WithSampleRows(cfg.SampleRows).
		WithFetcher(fetcher).
		WithLogger(log))
	if err != nil {
		log.Error("failed to create store", "error", err)
		os.Exit(1)
	}

	log.Info("starting actions server",
		"addr", cfg.Addr, "store", cfg.StorePath)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(store, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
