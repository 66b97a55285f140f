package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"erpr_backend/internals/configs"
	database "erpr_backend/internals/databases"
	cronService "erpr_backend/internals/features/cron/service"
	"erpr_backend/internals/features/notifications/email"
	paymentService "erpr_backend/internals/features/payments/service"
	helper "erpr_backend/internals/helpers"
	"erpr_backend/internals/jobs"
	"erpr_backend/internals/logging"
	middlewares "erpr_backend/internals/middlewares"
	"erpr_backend/internals/middlewares/logger"
	"erpr_backend/internals/observability"
	routes "erpr_backend/internals/route"
	"erpr_backend/internals/seeds"
)

func main() {
	dotenv := configs.LoadDotEnv()

	lg, err := logging.Init(configs.GetEnv("LOG_LEVEL", "info"), configs.GetEnv("APP_ENV", "development"))
	if err != nil {
		panic(err)
	}
	defer lg.Closer()
	log := logging.L()
	if dotenv {
		log.Info(".env chargé")
	}

	if err := configs.LoadEnv(); err != nil {
		log.Fatalf("configuration invalide: %v", err)
	}

	flush, err := observability.InitSentry(configs.SentryDSN, configs.AppEnv, configs.GetEnv("APP_RELEASE"))
	if err != nil {
		log.Warnf("sentry désactivé: %v", err)
	}
	defer flush()

	// 🔌 DB connect + pool + migrations
	if err := database.ConnectDB(); err != nil {
		log.Fatal(err)
	}
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if configs.GetEnvBool("SEED_ON_START", false) {
		if err := seeds.RunAllSeeds(database.DB); err != nil {
			log.Fatalf("seeds: %v", err)
		}
	}
	database.WarmUpQueries()

	app := fiber.New(fiber.Config{
		AppName:               configs.AppName,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
		BodyLimit:             10 * 1024 * 1024,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.MetricsMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.DBMiddleware(database.DB))

	mailer := email.New()
	cronJobs := cronService.NewJobs(database.DB, mailer)

	routes.BaseRoutes(app, database.DB)
	routes.SetupRoutes(app, routes.Deps{
		DB:      database.DB,
		Mailer:  mailer,
		Storage: helper.NewSupabaseStorage(),
		Gateway: paymentService.DefaultGateway(),
		Jobs:    cronJobs,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ⏱ in-process scheduler, otherwise an external cron calls /api/cron
	runner := jobs.New(ctx)
	runner.Timeout = cronService.JobTimeout
	if configs.JobsInternal {
		for _, j := range cronJobs.All() {
			name := j.Name
			if err := runner.Schedule(j.Schedule, name, func(ctx context.Context) error {
				_, err := cronJobs.Run(ctx, name)
				return err
			}); err != nil {
				log.Fatalf("jobs: %v", err)
			}
		}
		runner.Start()
	}

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Infof("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("arrêt en cours...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	runner.Stop()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
