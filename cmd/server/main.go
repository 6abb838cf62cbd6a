package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"score-pad/internal/config"
	"score-pad/internal/db"
	"score-pad/internal/server"
	"score-pad/internal/storage"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	kv, err := storage.NewFileStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("open snapshot store: %v", err)
	}

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		conn, err = db.Open()
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		configurePool(conn, cfg)
	} else {
		log.Println("DATABASE_URL not set, archive disabled")
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(server.NewStore(kv), conn, cfg)
	log.Printf("score-pad server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func configurePool(conn *gorm.DB, cfg config.Config) {
	sqlDB, err := conn.DB()
	if err != nil {
		log.Printf("failed to configure db pool: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
}
