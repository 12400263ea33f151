package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/kitchen/pkg/application/services/consumption"
	"github.com/vsinha/kitchen/pkg/application/services/maintenance"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
	"github.com/vsinha/kitchen/pkg/infrastructure/config"
	"github.com/vsinha/kitchen/pkg/infrastructure/events"
	"github.com/vsinha/kitchen/pkg/infrastructure/logging"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/sqlstore"
	"go.uber.org/zap"
)

// kitchen is the wired backend a command runs against
type kitchen struct {
	cfg    *config.Config
	logger *zap.Logger

	products     repositories.ProductRepository
	stock        repositories.StockRepository
	recipes      repositories.RecipeRepository
	consumptions repositories.ConsumptionRepository
	events       *events.InMemoryEventStore

	close func() error
}

// openKitchen loads the configuration and opens the configured store. A
// scenario directory replaces the store with an in-memory one seeded from it.
func openKitchen(ctx context.Context, opts *rootOptions) (*kitchen, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.scenario != "" {
		cfg.Database.Driver = "memory"
	}
	return openKitchenWith(ctx, cfg, opts.scenario)
}

func openKitchenWith(ctx context.Context, cfg *config.Config, scenario string) (*kitchen, error) {
	logger, err := logging.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	k := &kitchen{cfg: cfg, logger: logger, events: events.NewBoundedEventStore(logger, cfg.Engine.EventRetention)}
	if err := k.events.Subscribe(events.AllConsumptionEvents, events.NewLoggingHandler(logger, events.AllConsumptionEvents...)); err != nil {
		return nil, fmt.Errorf("subscribe event logger: %w", err)
	}

	switch cfg.Database.Driver {
	case "memory":
		k.products = memory.NewProductRepository(0)
		k.stock = memory.NewStockRepository()
		k.recipes = memory.NewRecipeRepository(0)
		k.consumptions = memory.NewConsumptionRepository()
		k.close = func() error { return nil }
	default:
		db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, sqlstore.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		if err := sqlstore.ApplyMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		k.products = sqlstore.NewProductRepository(db)
		k.stock = sqlstore.NewStockRepository(db)
		k.recipes = sqlstore.NewRecipeRepository(db)
		k.consumptions = sqlstore.NewConsumptionRepository(db)
		k.close = db.Close
	}

	if scenario != "" {
		if err := k.seed(ctx, scenario); err != nil {
			k.Close()
			return nil, err
		}
	}
	return k, nil
}

// seed loads a CSV scenario into the open store
func (k *kitchen) seed(ctx context.Context, dir string) error {
	scenario, err := csv.NewLoader().LoadScenario(dir)
	if err != nil {
		return fmt.Errorf("error loading scenario: %w", err)
	}
	if err := csv.Seed(ctx, scenario, k.products, k.stock, k.recipes); err != nil {
		return err
	}
	k.logger.Info("scenario loaded",
		zap.String("dir", dir),
		zap.Int("products", len(scenario.Products)),
		zap.Int("stock", len(scenario.Stock)),
		zap.Int("recipes", len(scenario.Recipes)))
	return nil
}

func (k *kitchen) consumptionService() *consumption.Service {
	engine := consumption.EngineConfig{
		Locale:            entities.Locale(k.cfg.Engine.Locale),
		OptimisticLocking: k.cfg.Engine.OptimisticLocking,
		DefaultListLimit:  k.cfg.Engine.DefaultListLimit,
		MaxListLimit:      k.cfg.Engine.MaxListLimit,
	}
	return consumption.NewService(k.recipes, k.stock, k.consumptions, engine,
		consumption.WithLogger(k.logger),
		consumption.WithEventStore(k.events),
	)
}

func (k *kitchen) maintenanceService() *maintenance.Service {
	return maintenance.NewService(k.recipes, k.products, k.logger)
}

// Close releases the store and flushes the logger
func (k *kitchen) Close() error {
	defer logging.Sync(k.logger)
	return k.close()
}
