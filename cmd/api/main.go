package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/strauss-analytics/ticket-intake/internal/api/http"
	"github.com/strauss-analytics/ticket-intake/internal/api/http/handlers"
	"github.com/strauss-analytics/ticket-intake/internal/config"
	"github.com/strauss-analytics/ticket-intake/internal/events"
	"github.com/strauss-analytics/ticket-intake/internal/notifier"
	"github.com/strauss-analytics/ticket-intake/internal/observability"
	"github.com/strauss-analytics/ticket-intake/internal/persistence"
	"github.com/strauss-analytics/ticket-intake/internal/repository"
	"github.com/strauss-analytics/ticket-intake/internal/service"
	"github.com/strauss-analytics/ticket-intake/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	store := persistence.NewAirtable(cfg.Airtable, logger)
	ticketRepo := repository.NewTicketRepository(store)

	sender, err := notifier.New(cfg.Notifier, cfg.Email, logger)
	if err != nil {
		logger.Fatal("failed to init notifier", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, sender, logger, cfg.Email)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Tickets: handlers.NewTicketsHandler(ticketService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
