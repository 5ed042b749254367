package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"movie-catalog/catalog"
	"movie-catalog/common"
	"movie-catalog/config"
	"movie-catalog/exports"
	"movie-catalog/imports"
	"movie-catalog/web"
)

func Migrate(db *gorm.DB) error {
	// Job tracking and request metrics; the catalog lives in memory
	return common.AutoMigrateJobs(db)
}

func setupRouter(store *catalog.Store, loader *imports.Loader) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), common.RequestLogger(), common.MetricsMiddleware())
	r.RedirectTrailingSlash = false
	// Movie names may contain slashes
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"loaded": store.Loaded(),
			"job_id": store.Current().JobID,
			"movies": len(store.Current().Movies),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	catalog.RegisterRoutes(v1, store)
	imports.RegisterRoutes(v1.Group("/imports"), loader)
	exports.RegisterRoutes(v1.Group("/exports"), store)

	web.RegisterRoutes(r, store)
	return r
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log := common.Logger()
		log.Fatal().Err(err).Msg("load config")
	}
	common.ConfigureLogger(common.LogConfig{Level: cfg.Log.Level})
	log := common.WithComponent("main")

	// Initialize database
	db, err := common.Init(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Ensure database connection is closed on exit
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("get sql.DB")
	} else {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore()
	fetcher := imports.NewFetcher(cfg.Source.Timeout, cfg.Source.UserAgent, cfg.Source.MaxBytes)
	loader := imports.NewLoader(fetcher, store, common.GetDB(), imports.Options{
		SourceURL:         cfg.Source.URL,
		Format:            cfg.Source.Format,
		MinReloadInterval: cfg.Reload.MinInterval,
	})

	// Serve immediately; pages render empty until the first load lands
	go func() {
		if _, err := loader.Load(ctx, common.TriggerStartup); err != nil {
			log.Error().Err(err).Msg("startup load failed")
		}
	}()
	go store.Hero().Run(ctx, cfg.Hero.Interval)
	if cfg.Reload.Interval > 0 {
		go loader.Schedule(ctx, cfg.Reload.Interval)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           setupRouter(store, loader),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("source", cfg.Source.URL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
