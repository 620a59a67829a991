package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	webAdapter "storen/internal/adapters/web"
	"storen/internal/config"
	"storen/internal/core"
	"storen/internal/db"
	"storen/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	tables := store.NewPostgres(pool)

	var blobs core.BlobStore
	if cfg.MinIO.Endpoint != "" {
		blobs, err = store.NewMinio(store.MinioConfig{
			Endpoint:      cfg.MinIO.Endpoint,
			AccessKey:     cfg.MinIO.AccessKey,
			SecretKey:     cfg.MinIO.SecretKey,
			Bucket:        cfg.MinIO.Bucket,
			UseSSL:        cfg.MinIO.UseSSL,
			PublicBaseURL: cfg.MinIO.PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("object store: %v", err)
		}
	} else {
		log.Println("Warning: MINIO_ENDPOINT is not set, thumbnails stay in memory")
		blobs = store.NewMemory()
	}

	ctrl := core.NewSyncController(tables, blobs, core.ControllerConfig{
		PageSize:      cfg.Inventory.PageSize,
		MaxImageBytes: cfg.Inventory.MaxImageBytes,
	})
	ctrl.Load(ctx)

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	handler := webAdapter.NewHandler(ctrl, cfg.Server.AllowedOrigins,
		cfg.Auth.JWTSecret, cfg.Auth.AdminUser, cfg.Auth.AdminPassword)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server starting on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
