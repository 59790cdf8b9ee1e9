package crm

import (
	"embed"
	"time"

	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
	"github.com/nextdoorextsolutions/roofline/modules/crm/presentation/controllers"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
	"github.com/nextdoorextsolutions/roofline/pkg/application"
	"github.com/nextdoorextsolutions/roofline/pkg/types"
)

//go:embed infrastructure/persistence/schema/crm-schema.sql
var schemaFS embed.FS

// Options carries the deployment-specific knobs the module needs. Both come
// from configuration; the module never reads the environment itself.
type Options struct {
	LienWindow         time.Duration
	CommissionLocation *time.Location
}

func NewModule(opts Options) application.Module {
	return &module{opts: opts}
}

type module struct {
	opts Options
}

func (m *module) Name() string {
	return "crm"
}

func (m *module) Register(app *application.Application) error {
	app.RegisterSchema(&schemaFS)

	users := persistence.NewUserRepository()
	jobs := persistence.NewJobRepository()
	history := persistence.NewEditHistoryRepository()
	commissions := persistence.NewCommissionRepository()

	clock := types.NewRealClock()
	accessSvc := services.NewAccessService(users)
	jobSvc := services.NewJobService(jobs, history, accessSvc, app.EventPublisher(), clock, m.opts.LienWindow)
	auditSvc := services.NewAuditService(history, jobs, accessSvc)
	lienSvc := services.NewLienService(jobs, jobSvc, accessSvc, clock, m.opts.LienWindow)
	commissionSvc := services.NewCommissionService(
		commissions, jobs, accessSvc, app.EventPublisher(), clock, m.opts.CommissionLocation)

	app.RegisterControllers(
		controllers.NewJobsController(jobSvc, auditSvc, users),
		controllers.NewLienController(lienSvc, jobSvc, users),
		controllers.NewCommissionsController(commissionSvc, users),
	)
	return nil
}
