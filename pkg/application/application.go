package application

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/nextdoorextsolutions/roofline/pkg/eventbus"
)

// Controller registers a set of routes on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a feature's repositories, services and controllers into the
// application.
type Module interface {
	Name() string
	Register(app *Application) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

type Application struct {
	pool           *pgxpool.Pool
	eventPublisher eventbus.EventBus
	logger         *logrus.Logger
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	schemaFiles    []*embed.FS
}

func New(opts *ApplicationOptions) *Application {
	return &Application{
		pool:           opts.Pool,
		eventPublisher: opts.EventBus,
		logger:         opts.Logger,
		controllers:    make(map[string]Controller),
	}
}

func (a *Application) Pool() *pgxpool.Pool             { return a.pool }
func (a *Application) EventPublisher() eventbus.EventBus { return a.eventPublisher }
func (a *Application) Logger() *logrus.Logger          { return a.logger }

func (a *Application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		a.controllers[c.Key()] = c
	}
}

func (a *Application) Controllers() []Controller {
	keys := make([]string, 0, len(a.controllers))
	for k := range a.controllers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Controller, 0, len(keys))
	for _, k := range keys {
		out = append(out, a.controllers[k])
	}
	return out
}

func (a *Application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *Application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}

func (a *Application) RegisterSchema(files *embed.FS) {
	a.schemaFiles = append(a.schemaFiles, files)
}

// ApplySchema executes every embedded *.sql file against the pool. Schema
// files are written to be idempotent.
func (a *Application) ApplySchema(ctx context.Context) error {
	for _, schemaFS := range a.schemaFiles {
		err := fs.WalkDir(schemaFS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			contents, err := schemaFS.ReadFile(path)
			if err != nil {
				return err
			}
			_, err = a.pool.Exec(ctx, string(contents))
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
