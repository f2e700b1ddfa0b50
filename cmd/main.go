package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/burgerhouse/cart"
	"github.com/ray-remotestate/burgerhouse/config"
	"github.com/ray-remotestate/burgerhouse/database"
	"github.com/ray-remotestate/burgerhouse/database/dbhelper"
	"github.com/ray-remotestate/burgerhouse/database/seed"
	"github.com/ray-remotestate/burgerhouse/handlers"
	"github.com/ray-remotestate/burgerhouse/notify"
	"github.com/ray-remotestate/burgerhouse/orders"
	"github.com/ray-remotestate/burgerhouse/server"
	"github.com/ray-remotestate/burgerhouse/telemetry"
	"github.com/ray-remotestate/burgerhouse/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if err := cfg.ConfigureLogging(); err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.TracingEnabled, "burgerhouse")
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize tracing")
	}

	db, err := database.ConnectAndMigrate(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword, database.SSLMode(cfg.DBSSLMode))
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Info("migration is successful")

	catalog := dbhelper.NewCatalog(db)
	if cfg.SeedMenu {
		items, err := seed.DemoMenu()
		if err != nil {
			logrus.WithError(err).Fatal("failed to load demo menu")
		}
		n, err := catalog.SeedMenuIfEmpty(ctx, items)
		if err != nil {
			logrus.WithError(err).Fatal("failed to seed menu")
		}
		if n > 0 {
			logrus.WithField("items", n).Info("menu seeded")
		}
	}

	rdb, err := notify.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}

	orderService := orders.NewService(dbhelper.NewOrders(db), notify.NewRedisFeed(rdb, notify.DefaultNamespace), cfg.DeliveryFee)
	api := handlers.NewAPI(
		dbhelper.NewUsers(db),
		catalog,
		orderService,
		cart.NewSessions(),
		utils.NewTokenIssuer(cfg.SecretKey()),
		map[string]handlers.HealthCheck{
			"postgres": db.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	)

	srv := server.SetupRoutes(api, cfg.SecretKey())
	go func() {
		logrus.WithField("port", cfg.Port).Info("server is running")
		if err := srv.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("failed to run server")
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down...")

	var result *multierror.Error
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		result = multierror.Append(result, err)
	}
	if err := rdb.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := db.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		logrus.WithError(err).Error("shutdown finished with errors")
		return
	}
	logrus.Info("system is shut ..zzz")
}
