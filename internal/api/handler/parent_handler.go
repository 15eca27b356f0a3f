package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/service"
)

type linkChildRequest struct {
	StudentID string `json:"student_id"`
}

// Child loads one linked child's records.
//
// @Summary      Child records
// @Tags         parent
// @Produce      json
// @Param        id   path      string  true  "Student id"
// @Success      200  {object}  service.ChildOverview
// @Router       /parent/children/{id} [get]
func (h *DashboardHandler) Child(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := service.NewParentService(ws.API, h.log).Child(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.metrics.SectionsUnavailable("parent", out.Unavailable)
	return c.JSON(http.StatusOK, out)
}

// LinkChild links a student to the signed-in parent.
//
// @Summary      Link a child
// @Tags         parent
// @Accept       json
// @Param        body  body  linkChildRequest  true  "Student id"
// @Success      204
// @Failure      422   {object}  map[string]string
// @Router       /parent/children [post]
func (h *DashboardHandler) LinkChild(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req linkChildRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := service.NewParentService(ws.API, h.log).LinkChild(c.Request().Context(), req.StudentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
