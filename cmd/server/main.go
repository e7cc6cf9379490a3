// Command server exposes the routing core over a thin HTTP surface:
// POST /v1/search runs one door-to-door search, GET /v1/health reports
// liveness. Grounded on the teacher's health-route-server/main.go
// (gin + gin-contrib/cors + godotenv), which this supersedes as the
// repo's single HTTP surface (see DESIGN.md "Dropped dependencies" for
// why the other teacher module's gorilla/mux server is not also run).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mohamedthameursassi/intermodal/internal/config"
	"github.com/mohamedthameursassi/intermodal/internal/place"
	"github.com/mohamedthameursassi/intermodal/internal/store"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using process environment")
	}

	cfgPath := os.Getenv("INTERMODAL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg := config.Default()
	if _, err := os.Stat(cfgPath); err == nil {
		if err := config.Load(cfgPath, cfg); err != nil {
			log.Error("config load failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	st, err := store.Open(store.Config{Path: cfg.Store.Path}, log)
	if err != nil {
		log.Error("store open failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		log.Error("schema migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	normalizer := place.New(st, place.NewStubGeocoder())
	synth := transfer.New(cfg.Search.Rideshare, time.Now)

	api := newAPI(st, normalizer, synth, cfg, log)

	go watchConfig(ctx, cfgPath, log, api)

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"*"}
	r.Use(cors.New(corsCfg))

	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.POST("/v1/search", api.handleSearch)

	log.Info("server starting", slog.String("addr", cfg.HTTP.Address()))
	if err := r.Run(cfg.HTTP.Address()); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func watchConfig(ctx context.Context, path string, log *slog.Logger, api *api) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := config.Watch(ctx, path, log, func(c *config.Config) {
		api.updateConfig(c)
	}); err != nil {
		log.Warn("config watch failed", slog.String("error", err.Error()))
	}
}
