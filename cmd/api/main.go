package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/memorize-api/internal/auth/http"
	"github.com/AlibekovAA/memorize-api/internal/auth/service"
	"github.com/AlibekovAA/memorize-api/internal/common/bootstrap"
	commoncrypto "github.com/AlibekovAA/memorize-api/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/memorize-api/internal/common/http"
	srv "github.com/AlibekovAA/memorize-api/internal/common/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config

	tokens := service.NewTokenIssuer(cfg.JWTSecret)
	authService := service.NewAuthService(
		app.UserRepo,
		commoncrypto.NewBcryptHasher(0),
		tokens,
		log,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", authhttp.NewHandler(authService, tokens, cfg, log))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), commonhttp.BuildBaseHandler(log, mux))

	if err := srv.Run(ctx, server, log); err != nil {
		log.Errorf("server exited: %v", err)
		app.Close()
		os.Exit(1)
	}
}
