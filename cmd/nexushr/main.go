package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nexushr/nexushr/internal/ai"
	"github.com/nexushr/nexushr/internal/config"
	"github.com/nexushr/nexushr/internal/db"
	"github.com/nexushr/nexushr/internal/embedcache"
	"github.com/nexushr/nexushr/internal/filestore"
	"github.com/nexushr/nexushr/internal/handler"
	"github.com/nexushr/nexushr/internal/job"
	"github.com/nexushr/nexushr/internal/repo"
	"github.com/nexushr/nexushr/internal/schedule"
	"github.com/nexushr/nexushr/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "nexushr",
		Short: "nexushr document assistant server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run nexushr server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func buildGenerator(cfg *config.Config) (ai.IGenerator, error) {
	entries := make([]ai.GeneratorEntry, 0, len(cfg.AI.Generate))
	for _, item := range cfg.AI.Generate {
		provider, err := ai.NewProvider(item.Provider, item.Data)
		if err != nil {
			return nil, fmt.Errorf("init generator %s: %w", item.Provider, err)
		}
		entries = append(entries, ai.GeneratorEntry{
			Name:      item.Provider + "/" + item.Model,
			Generator: ai.NewGenerator(provider, item.Model),
		})
	}
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	return ai.WrapTimeoutGenerator(ai.NewGroupGenerator(entries), timeout), nil
}

func buildEmbedder(cfg *config.Config) (ai.IEmbedder, error) {
	entries := make([]ai.EmbedderEntry, 0, len(cfg.AI.Embed))
	for _, item := range cfg.AI.Embed {
		provider, err := ai.NewEmbedProvider(item.Provider, item.Data)
		if err != nil {
			return nil, fmt.Errorf("init embedder %s: %w", item.Provider, err)
		}
		entries = append(entries, ai.EmbedderEntry{
			Name:     item.Model,
			Embedder: ai.NewEmbedder(provider, item.Model),
		})
	}
	embedder := ai.NewGroupEmbedder(entries)
	if embedder == nil {
		return nil, fmt.Errorf("ai.embed requires at least one provider")
	}
	// Cache sits outside the deadline wrapper so hits never race it.
	embedder = ai.WrapTimeoutEmbedder(embedder, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	cacheTTL := time.Duration(cfg.AI.CacheTTLMinutes) * time.Minute
	return embedcache.WrapLruCacheToEmbedder(embedder, cfg.AI.CacheSize, cacheTTL), nil
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("collection", cfg.CollectionName),
		zap.String("file_store", cfg.FileStore.Type),
	)

	chunkRepo := repo.NewChunkRepo(database)
	documentRepo := repo.NewDocumentRepo(database)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	jwtTTL := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	authService := service.NewAuthService(cfg.JWTSecret, jwtTTL)
	ingestService := service.NewIngestService(chunkRepo, documentRepo, store, embedder,
		cfg.Upload.MaxFileSize, cfg.Chunk.Size, cfg.Chunk.Overlap)
	queryService := service.NewQueryService(chunkRepo, embedder, generator,
		cfg.Retrieval.TopK, cfg.AI.CacheSize, time.Duration(cfg.AI.CacheTTLMinutes)*time.Minute)
	documentService := service.NewDocumentService(chunkRepo, documentRepo, embedder, cfg.CollectionName)

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Documents:   handler.NewDocumentHandler(ingestService, documentService),
		Chat:        handler.NewChatHandler(queryService),
		System:      handler.NewSystemHandler(documentService),
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		WebDir:      cfg.WebDir,
	}
	router := handler.NewRouter(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanupJob := job.NewUploadCleanupJob(store, documentRepo)
	if err := scheduler.AddJob(cleanupJob, cfg.CleanupCron); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
