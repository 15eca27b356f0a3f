package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sadhana-school/portal/internal/api/handler"
	"github.com/sadhana-school/portal/internal/api/metrics"
	"github.com/sadhana-school/portal/internal/api/middleware"
	"github.com/sadhana-school/portal/internal/api/workspace"
	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/service"

	_ "github.com/sadhana-school/portal/docs"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log          zerolog.Logger
	Session      middleware.SessionConfig
	Opener       *workspace.Opener
	Registration *service.RegistrationService
	Metrics      *metrics.Metrics
	// Registry receives the HTTP metrics and backs /metrics.
	Registry  *prometheus.Registry
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal_http",
		Registerer: d.Registry,
	}))

	// --- Probes and docs (no session) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Browser session routes ---
	g := e.Group("", middleware.Session(d.Session), d.Opener.Middleware())
	signedIn := middleware.RequireRole()

	auth := handler.NewAuthHandler()
	g.POST("/auth/login", auth.Login)
	g.POST("/auth/register", auth.Register)
	g.POST("/auth/logout", auth.Logout)
	g.GET("/auth/me", auth.Me, signedIn)

	theme := handler.NewThemeHandler()
	g.GET("/preferences/theme", theme.Get)
	g.PUT("/preferences/theme", theme.Put)
	g.POST("/preferences/theme/toggle", theme.Toggle)

	chat := handler.NewChatHandler(d.Log.With().Str("component", "chat").Logger(), d.Metrics)
	g.POST("/chat", chat.Post)
	g.GET("/chat/questions", chat.QuickQuestions)

	reg := handler.NewRegistrationHandler(d.Registration, d.Metrics)
	g.POST("/register/student", reg.Start)
	g.GET("/register/student/:id", reg.Get)
	g.POST("/register/student/:id/next", reg.Next)
	g.POST("/register/student/:id/back", reg.Back)
	g.POST("/register/student/:id/submit", reg.Submit)

	dash := handler.NewDashboardHandler(d.Log.With().Str("component", "dashboard").Logger(), d.Metrics)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	g.GET("/dashboard/admin", dash.Admin, adminOnly)
	g.POST("/admin/users/:id/approve", dash.ApproveUser, adminOnly)
	g.POST("/admin/users/:id/reject", dash.RejectUser, adminOnly)
	g.POST("/admin/classes", dash.CreateClass, adminOnly)
	g.DELETE("/admin/classes/:id", dash.DeleteClass, adminOnly)
	g.POST("/admin/sections", dash.CreateSection, adminOnly)
	g.POST("/admin/fee-structures", dash.CreateFeeStructure, adminOnly)
	g.DELETE("/admin/students/:id", dash.DeleteStudent, adminOnly)
	g.DELETE("/admin/faculty/:id", dash.DeleteFaculty, adminOnly)
	g.GET("/admin/reports/fees/classes", dash.ClassFeeReport, adminOnly)
	g.GET("/admin/reports/fees/sections", dash.SectionFeeReport, adminOnly)

	g.GET("/students/directory", dash.Directory, middleware.RequireRole(domain.RoleAdmin, domain.RoleFaculty))

	facultyOnly := middleware.RequireRole(domain.RoleFaculty)
	g.GET("/dashboard/faculty", dash.Faculty, facultyOnly)
	g.POST("/faculty/attendance", dash.MarkAttendance, facultyOnly)
	g.POST("/faculty/marks", dash.UploadMarks, facultyOnly)

	g.GET("/dashboard/student", dash.Student, middleware.RequireRole(domain.RoleStudent))

	parentOnly := middleware.RequireRole(domain.RoleParent)
	g.GET("/dashboard/parent", dash.Parent, parentOnly)
	g.GET("/parent/children/:id", dash.Child, parentOnly)
	g.POST("/parent/children", dash.LinkChild, parentOnly)

	pay := handler.NewPaymentHandler(d.Log.With().Str("component", "payments").Logger())
	payers := g.Group("/payments", middleware.RequireRole(domain.RoleStudent, domain.RoleParent))
	payers.POST("/order", pay.CreateOrder)
	payers.POST("/verify", pay.Verify)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
