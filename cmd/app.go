package cmd

import (
	"context"
	"fmt"

	"ecochampions/config"
	"ecochampions/database"
	"ecochampions/events"
	"ecochampions/infrastructure"
	"ecochampions/repository"
	"ecochampions/service"

	log "github.com/sirupsen/logrus"
)

// app holds the wired services shared by every command
type app struct {
	cfg       *config.Config
	db        *database.DB
	bus       *events.Bus
	nats      *infrastructure.NATSClient
	engine    service.RewardEngine
	accounts  service.AccountService
	recycling service.RecyclingService
	projects  service.ProjectService
	trades    service.TradeService
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Debug("Database connection established")

	bus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, bus)
	engine := service.NewRewardEngine(uowFactory)

	a := &app{
		cfg:       cfg,
		db:        db,
		bus:       bus,
		engine:    engine,
		accounts:  service.NewAccountService(uowFactory),
		recycling: service.NewRecyclingService(uowFactory, cfg.Rewards),
		projects:  service.NewProjectService(uowFactory, engine, bus, cfg.Rewards),
		trades:    service.NewTradeService(uowFactory, engine, bus, cfg.Rewards),
	}

	if cfg.NATSServers != "" {
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			db.Close()
			return nil, err
		}
		infrastructure.NewNATSForwarder(client, cfg.NATSSubject).Subscribe(bus)
		a.nats = client
	}

	if cfg.DiscordWebhookID != "" && cfg.DiscordWebhookToken != "" {
		announcer, err := infrastructure.NewDiscordAnnouncer(cfg.DiscordWebhookID, cfg.DiscordWebhookToken)
		if err != nil {
			a.Close()
			return nil, err
		}
		announcer.Subscribe(bus)
		log.Info("Discord announcements enabled")
	}

	return a, nil
}

// Close waits for in-flight event handlers before releasing connections
func (a *app) Close() {
	a.bus.Wait()

	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}
	a.db.Close()
}
