package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"godha/internal/config"
	httpapi "godha/internal/http"
	"godha/internal/ratelimit"
	"godha/internal/repository"
	"godha/internal/service"
	"godha/internal/storage"

	_ "godha/docs"
)

// @title Godha Collections API
// @version 1.0
// @description Storefront REST API: catalog, orders and image upload.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	productsSvc := service.NewProductService(store)
	ordersSvc := service.NewOrderService(store, ordersRepo, tx)
	uploads := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)

	limiter := ratelimit.New(ratelimit.WithSweepInterval(cfg.SweepInterval))
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	limiter.StartJanitor(janitorCtx)

	srv := httpapi.NewServer(cfg, limiter, productsSvc, ordersSvc, uploads)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopJanitor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
