package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/assistant"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/handlers"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/invoicer-ai-be/cmd/api/docs"
)

// @title Invoicer API
// @version 1.0
// @description Local API behind the invoicer desktop app: invoices, clients, products, reports, exports and the AI assistant
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	module, err := invoicing.New(ctx, cfg)
	if err != nil {
		utils.LogError("failed to start invoicing module", err, map[string]interface{}{"store": cfg.StorageDriver})
		os.Exit(1)
	}
	defer module.Close()

	utils.LogInfo("invoicing module ready", map[string]interface{}{
		"store":    module.Storage.Name(),
		"invoices": len(module.Store.Invoices()),
		"locale":   module.Store.Locale().String(),
	})

	sched := scheduler.NewScheduler()
	if cfg.BackupSchedule != "" {
		err := sched.AddJob("backup", cfg.BackupSchedule, func() {
			if _, err := module.Store.WriteBackup(cfg.BackupDir); err != nil {
				utils.LogError("scheduled backup failed", err, map[string]interface{}{"dir": cfg.BackupDir})
			}
		})
		if err != nil {
			utils.LogError("invalid BACKUP_SCHEDULE", err, map[string]interface{}{"schedule": cfg.BackupSchedule})
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	// no speaker: the server has no audio output
	session := assistant.NewSession(module.Dispatcher, nil)

	app := fiber.New(fiber.Config{
		AppName:   "Invoicer API",
		BodyLimit: 32 << 20,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, handlers.Handlers{
		Health:    handlers.NewHealthHandler(module.Storage.Name()),
		Invoices:  handlers.NewInvoiceHandler(module.Store, module.Exports),
		Catalog:   handlers.NewCatalogHandler(module.Store),
		Settings:  handlers.NewSettingsHandler(module.Store, module.Logos),
		Reports:   handlers.NewReportHandler(module.Store),
		Exports:   handlers.NewExportHandler(module.Store, module.Exports, cfg.BackupDir),
		Assistant: handlers.NewAssistantHandler(session),
	})

	go func() {
		<-ctx.Done()
		utils.LogInfo("shutting down", nil)
		if err := app.Shutdown(); err != nil {
			utils.LogError("shutdown failed", err, nil)
		}
	}()

	utils.LogInfo("api listening", map[string]interface{}{
		"port":    cfg.Port,
		"swagger": "http://localhost:" + cfg.Port + "/swagger/",
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		utils.LogError("server stopped", err, nil)
	}
}
