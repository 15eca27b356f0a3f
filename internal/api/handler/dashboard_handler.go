package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/api/metrics"
	"github.com/sadhana-school/portal/internal/core/service"
)

// DashboardHandler serves the role dashboards. Services are bound to the
// request's session on every call.
type DashboardHandler struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewDashboardHandler(log zerolog.Logger, m *metrics.Metrics) *DashboardHandler {
	return &DashboardHandler{log: log, metrics: m}
}

func (h *DashboardHandler) admin(c echo.Context) (*service.AdminService, error) {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return nil, err
	}
	return service.NewAdminService(ws.API, h.log.With().Str("dashboard", "admin").Logger()), nil
}

// Admin loads the admin dashboard. Sections the backend fails to serve are
// empty and listed under "unavailable".
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.AdminOverview
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	out, err := svc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	h.metrics.SectionsUnavailable("admin", out.Unavailable)
	return c.JSON(http.StatusOK, out)
}

// Faculty loads the faculty dashboard.
//
// @Summary      Faculty dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.FacultyOverview
// @Router       /dashboard/faculty [get]
func (h *DashboardHandler) Faculty(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := service.NewFacultyService(ws.API, h.log).Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Student loads the student dashboard with its derived figures.
//
// @Summary      Student dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.StudentOverview
// @Router       /dashboard/student [get]
func (h *DashboardHandler) Student(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := service.NewStudentService(ws.API, h.log).Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Parent loads the parent dashboard. The child query parameter selects a
// linked child; the first child is shown by default.
//
// @Summary      Parent dashboard
// @Tags         dashboard
// @Produce      json
// @Param        child  query     string  false  "Student id of the selected child"
// @Success      200    {object}  service.ParentOverview
// @Router       /dashboard/parent [get]
func (h *DashboardHandler) Parent(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := service.NewParentService(ws.API, h.log).Overview(c.Request().Context(), c.QueryParam("child"))
	if err != nil {
		return err
	}
	if out.Selected != nil {
		h.metrics.SectionsUnavailable("parent", out.Selected.Unavailable)
	}
	return c.JSON(http.StatusOK, out)
}

// Directory lists students with class, section, fee status and search
// filters.
//
// @Summary      Student directory
// @Tags         students
// @Produce      json
// @Param        class       query     string  false  "Class name"
// @Param        section     query     string  false  "Section"
// @Param        fee_status  query     string  false  "PENDING, PARTIAL or PAID"
// @Param        q           query     string  false  "Name, student id or roll number"
// @Success      200         {object}  service.Directory
// @Router       /students/directory [get]
func (h *DashboardHandler) Directory(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	var filter service.DirectoryFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}
	out, err := svc.Directory(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
