// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"credential-vault/cmd"
	"credential-vault/internal/data/repository"
	"credential-vault/internal/wire"
	"credential-vault/pkg/cryptox"
	"credential-vault/pkg/database"
	"credential-vault/pkg/mailer"
	"credential-vault/pkg/scheduler"
	"credential-vault/pkg/token"
	"credential-vault/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// `credential-vault genkey` prints a fresh VAULT_KEY and exits.
	if len(os.Args) > 1 && os.Args[1] == "genkey" {
		key, err := cryptox.GenerateKey()
		if err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Println(key)
		return
	}

	config, err := utils.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	repos, closeDB := openRepository(ctx, config, logger)
	defer closeDB()

	cipher, err := cryptox.NewFromBase64(config.Vault.Key)
	if err != nil {
		logger.Fatal("Invalid VAULT_KEY", zap.Error(err))
	}

	sender, err := mailer.New(config.Email, logger)
	if err != nil {
		logger.Fatal("Failed to init OTP sender", zap.Error(err))
	}

	tokens := token.NewIssuer(config.JWT.Secret, config.JWT.AccessTTL)

	app := wire.Wiring(repos, config, cipher, sender, tokens, logger)

	sched := scheduler.New(logger)
	err = sched.Add(config.Cleanup.Schedule, "sweep-expired", func(ctx context.Context) error {
		_, err := app.Service.Maintenance.SweepExpired(ctx)
		return err
	})
	if err != nil {
		logger.Fatal("Failed to schedule maintenance", zap.Error(err))
	}
	sched.Start()

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		logger.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}

	logger.Info("Application stopped")
}

// openRepository selects the storage backend named by DB_DRIVER.
func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Database.Driver == utils.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryRepository(logger), func() {}
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	return repository.NewRepository(db, logger), db.Close
}
