// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dca-reserves/internal/app"
	"dca-reserves/internal/config"
	"dca-reserves/internal/middleware"
)

// cmd/api/main.go (global var)
var BuildVersion = "dev" // diisi saat ldflags

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	a := app.New(cfg, log)        // <-- inisialisasi + inject semua repos
	a.Router.Use(middleware.CORS) // <-- tetap pasang CORS/middleware lain
	defer a.Close()

	// ledger tersimpan dimuat sebelum menerima request
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a.Restore(ctx)
	cancel()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).WithField("version", BuildVersion).Info("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
}
