package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camarize/camarize-backend/api/controllers"
	"github.com/camarize/camarize-backend/api/middleware"
	"github.com/camarize/camarize-backend/internal/auth"
	"github.com/camarize/camarize-backend/internal/enclosures"
	"github.com/camarize/camarize-backend/internal/farms"
	"github.com/camarize/camarize-backend/internal/requests"
	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/internal/telemetry"
	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/auth/session"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db"
	"github.com/camarize/camarize-backend/pkg/enums"
	"github.com/camarize/camarize-backend/pkg/logger"
	"github.com/camarize/camarize-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Cfg    *config.Config
	Logg   *logger.Logger
	DB     db.Pinger
	Redis  *redis.Client
	Gather prometheus.Gatherer

	Sessions session.AccessSessionChecker

	Auth           auth.Service
	Register       auth.RegisterService
	MasterRegister auth.MasterRegisterService
	Users          users.Service
	Farms          farms.Service
	Enclosures     enclosures.Service
	Sensors        sensors.Service
	Telemetry      telemetry.Service
	Requests       requests.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Cfg
	logg := deps.Logg

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gather != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gather, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Register, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register-owner", controllers.AuthRegisterOwner(deps.Register, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/check-email", controllers.AuthCheckEmail(deps.Users, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		if !cfg.App.IsProd() {
			r.Post("/register-master", controllers.MasterAuthRegister(deps.MasterRegister, logg))
		}
	})

	// Field hardware reports readings with a device key, not a user
	// session, so ingest sits outside the authenticated tree.
	r.Post("/api/v1/telemetry/readings", controllers.TelemetryIngest(deps.Telemetry, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserMe(deps.Users, logg))
			r.Patch("/me/photo", controllers.UserUpdatePhoto(deps.Users, logg))
			r.Get("/masters", controllers.UserListMasters(deps.Users, logg))
			r.With(middleware.RequireRole(enums.UserRoleMaster, logg)).Get("/", controllers.UserList(deps.Users, logg))
			r.Route("/{userId}", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleMaster, logg))
				r.Get("/", controllers.UserDetail(deps.Users, logg))
				r.Patch("/role", controllers.UserChangeRole(deps.Users, logg))
			})
		})

		r.Route("/farms", func(r chi.Router) {
			r.Get("/", controllers.FarmList(deps.Farms, logg))
			r.With(middleware.RequireRole(enums.UserRoleMaster, logg)).Post("/", controllers.FarmCreate(deps.Farms, logg))
			r.Route("/{farmId}", func(r chi.Router) {
				r.Get("/", controllers.FarmDetail(deps.Farms, logg))
				r.Get("/users", controllers.FarmUsers(deps.Farms, logg))
				r.Patch("/photo", controllers.FarmUpdatePhoto(deps.Farms, logg))
				r.Post("/associate", controllers.FarmAssociateEmployee(deps.Requests, logg))
				r.Get("/enclosures", controllers.EnclosureListByFarm(deps.Enclosures, logg))
			})
		})

		r.Route("/enclosures", func(r chi.Router) {
			r.With(middleware.RequireRole(enums.UserRoleMaster, logg)).Post("/", controllers.EnclosureCreate(deps.Enclosures, logg))
			r.Route("/{enclosureId}", func(r chi.Router) {
				r.Get("/", controllers.EnclosureDetail(deps.Enclosures, logg))
				r.With(middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleMaster)).Patch("/", controllers.EnclosureUpdate(deps.Enclosures, logg))
				r.With(middleware.RequireRole(enums.UserRoleMaster, logg)).Delete("/", controllers.EnclosureDelete(deps.Enclosures, logg))
				r.Get("/readings", controllers.TelemetryHistory(deps.Telemetry, logg))
				r.Get("/readings/latest", controllers.TelemetryLatest(deps.Telemetry, logg))
				r.Get("/dashboard", controllers.TelemetryDashboard(deps.Telemetry, logg))
			})
		})

		r.Route("/sensors", func(r chi.Router) {
			r.Get("/", controllers.SensorList(deps.Sensors, logg))
			r.Post("/", controllers.SensorCreate(deps.Sensors, logg))
			r.Route("/{sensorId}", func(r chi.Router) {
				r.Get("/", controllers.SensorDetail(deps.Sensors, logg))
				r.Patch("/", controllers.SensorUpdateNickname(deps.Sensors, logg))
				r.Delete("/", controllers.SensorDelete(deps.Sensors, logg))
			})
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.RequestCreate(deps.Requests, logg))
			r.Get("/", controllers.RequestList(deps.Requests, logg))
			r.Route("/{requestId}", func(r chi.Router) {
				r.With(middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleMaster)).Post("/approve", controllers.RequestApprove(deps.Requests, logg))
				r.With(middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleMaster)).Post("/reject", controllers.RequestReject(deps.Requests, logg))
				r.Delete("/", controllers.RequestDelete(deps.Requests, logg))
			})
		})
	})

	return r
}
