package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/service"
)

type attendanceResponse struct {
	Records []domain.AttendanceRecord `json:"records"`
}

// MarkAttendance records one day for the whole roster; listed students are
// present, all others absent.
//
// @Summary      Mark attendance
// @Tags         faculty
// @Accept       json
// @Produce      json
// @Param        body  body      service.AttendanceSheet  true  "Date and present student ids"
// @Success      200   {object}  attendanceResponse
// @Failure      422   {object}  map[string]string
// @Router       /faculty/attendance [post]
func (h *DashboardHandler) MarkAttendance(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var sheet service.AttendanceSheet
	if err := c.Bind(&sheet); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	records, err := service.NewFacultyService(ws.API, h.log).MarkAttendance(c.Request().Context(), sheet)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attendanceResponse{Records: records})
}

// UploadMarks records an exam result.
//
// @Summary      Upload marks
// @Tags         faculty
// @Accept       json
// @Param        body  body  domain.NewMarks  true  "Exam result"
// @Success      201
// @Failure      422   {object}  map[string]string
// @Router       /faculty/marks [post]
func (h *DashboardHandler) UploadMarks(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var marks domain.NewMarks
	if err := c.Bind(&marks); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := service.NewFacultyService(ws.API, h.log).UploadMarks(c.Request().Context(), marks); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}
