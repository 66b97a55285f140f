package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/logging"
)

var DB *gorm.DB

// BuildDSN prefers DATABASE_URL, otherwise assembles one from DB_* vars.
func BuildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=erpr&options=-c%%20statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		os.Getenv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "disable"),
	)
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
}

func ConnectDB() error {
	log := logging.L()
	log.Info("🔌 Connexion à PostgreSQL...")

	var (
		db  *gorm.DB
		err error
	)
	// the database container can take a few seconds to accept connections
	for i := 0; i < 5; i++ {
		db, err = Open(BuildDSN())
		if err == nil {
			DB = db
			log.Info("✅ Base de données connectée")
			return nil
		}
		log.Warnf("tentative de connexion %d échouée: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("connexion à la base impossible: %w", err)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		logging.L().Errorf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background()); err != nil {
			logging.L().Warnf("warm-up ping err: %v", err)
		}
	}()
}

func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
