package main

import (
	"exam_system_backend/internal/app"
	"exam_system_backend/internal/config"
	"exam_system_backend/pkg/logger"
	"flag"
	"log"
	"path/filepath"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on startup, even in release mode")
	seed := flag.Bool("seed", false, "insert the demo organization, teacher, courses and timings when empty")
	flag.Parse()

	// A missing .env is fine; the environment and config.yaml still apply.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly
	cfg.Seed = *seed

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	application.ConfigFile = filepath.Join(*configDir, "config.yaml")
	application.Run()
}
