package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nextdoorextsolutions/roofline/modules/crm"
	"github.com/nextdoorextsolutions/roofline/pkg/application"
	"github.com/nextdoorextsolutions/roofline/pkg/configuration"
	"github.com/nextdoorextsolutions/roofline/pkg/eventbus"
	"github.com/nextdoorextsolutions/roofline/pkg/middleware"
	"github.com/nextdoorextsolutions/roofline/pkg/server"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to reach database")
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	location, err := conf.Commission.Location()
	if err != nil {
		logger.WithError(err).Fatal("invalid commission timezone")
	}
	modules := []application.Module{
		crm.NewModule(crm.Options{
			LienWindow:         conf.Lien.Window(),
			CommissionLocation: location,
		}),
	}
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			logger.WithError(err).WithField("module", module.Name()).Fatal("failed to register module")
		}
	}

	if err := app.ApplySchema(ctx); err != nil {
		logger.WithError(err).Fatal("failed to apply schema")
	}

	app.RegisterMiddleware(
		middleware.WithPool(pool),
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metricsController{path: conf.Prometheus.Path})
	}

	logger.WithField("address", conf.SocketAddress).Info("listening")
	if err := server.NewHTTPServer(app).Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

type metricsController struct {
	path string
}

func (c metricsController) Key() string {
	return c.path
}

func (c metricsController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}
