package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/domain"
)

type classRequest struct {
	Name string `json:"name" validate:"required"`
}

type reportResponse[T any] struct {
	Report []T `json:"report"`
}

// ApproveUser activates a pending account.
//
// @Summary      Approve a pending user
// @Tags         admin
// @Param        id   path  string  true  "User id"
// @Success      204
// @Router       /admin/users/{id}/approve [post]
func (h *DashboardHandler) ApproveUser(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	if err := svc.ApproveUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RejectUser declines a pending account.
//
// @Summary      Reject a pending user
// @Tags         admin
// @Param        id   path  string  true  "User id"
// @Success      204
// @Router       /admin/users/{id}/reject [post]
func (h *DashboardHandler) RejectUser(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	if err := svc.RejectUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateClass adds a class.
//
// @Summary      Create a class
// @Tags         admin
// @Accept       json
// @Param        body  body  classRequest  true  "Class name"
// @Success      201
// @Router       /admin/classes [post]
func (h *DashboardHandler) CreateClass(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	var req classRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := svc.CreateClass(c.Request().Context(), req.Name); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// CreateSection adds a section to a class.
//
// @Summary      Create a section
// @Tags         admin
// @Accept       json
// @Param        body  body  domain.NewSection  true  "Section"
// @Success      201
// @Failure      422   {object}  map[string]string
// @Router       /admin/sections [post]
func (h *DashboardHandler) CreateSection(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	var req domain.NewSection
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := svc.CreateSection(c.Request().Context(), req); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// CreateFeeStructure defines fees for a class or section.
//
// @Summary      Create a fee structure
// @Tags         admin
// @Accept       json
// @Param        body  body  domain.NewFeeStructure  true  "Fee structure"
// @Success      201
// @Failure      422   {object}  map[string]string
// @Router       /admin/fee-structures [post]
func (h *DashboardHandler) CreateFeeStructure(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	var req domain.NewFeeStructure
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := svc.CreateFeeStructure(c.Request().Context(), req); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// DeleteClass removes a class.
//
// @Summary      Delete a class
// @Tags         admin
// @Param        id   path  string  true  "Class id"
// @Success      204
// @Router       /admin/classes/{id} [delete]
func (h *DashboardHandler) DeleteClass(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	if err := svc.DeleteClass(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteStudent removes a student.
//
// @Summary      Delete a student
// @Tags         admin
// @Param        id   path  string  true  "Student id"
// @Success      204
// @Router       /admin/students/{id} [delete]
func (h *DashboardHandler) DeleteStudent(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	if err := svc.DeleteStudent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteFaculty removes a faculty member.
//
// @Summary      Delete a faculty member
// @Tags         admin
// @Param        id   path  string  true  "Faculty id"
// @Success      204
// @Router       /admin/faculty/{id} [delete]
func (h *DashboardHandler) DeleteFaculty(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	if err := svc.DeleteFaculty(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ClassFeeReport summarises fee collection per class.
//
// @Summary      Class-wise fee report
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/reports/fees/classes [get]
func (h *DashboardHandler) ClassFeeReport(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	report, err := svc.ClassWiseReport(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportResponse[domain.ClassFeeReport]{Report: report})
}

// SectionFeeReport summarises fee collection per section of one class.
//
// @Summary      Section-wise fee report
// @Tags         admin
// @Produce      json
// @Param        class  query     string  true  "Class name"
// @Success      200    {object}  map[string]any
// @Router       /admin/reports/fees/sections [get]
func (h *DashboardHandler) SectionFeeReport(c echo.Context) error {
	svc, err := h.admin(c)
	if err != nil {
		return err
	}
	report, err := svc.SectionWiseReport(c.Request().Context(), c.QueryParam("class"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportResponse[domain.SectionFeeReport]{Report: report})
}
