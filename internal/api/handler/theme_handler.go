package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/domain"
)

type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type themeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// Get returns the session's theme preference.
//
// @Summary      Theme preference
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  themeResponse
// @Router       /preferences/theme [get]
func (h *ThemeHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: ws.Theme.Current()})
}

// Put stores a theme preference.
//
// @Summary      Set theme
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      themeRequest  true  "light or dark"
// @Success      200   {object}  themeResponse
// @Failure      422   {object}  map[string]string
// @Router       /preferences/theme [put]
func (h *ThemeHandler) Put(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req themeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := ws.Theme.Set(c.Request().Context(), domain.Theme(req.Theme)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: ws.Theme.Current()})
}

// Toggle flips between light and dark.
//
// @Summary      Toggle theme
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  themeResponse
// @Router       /preferences/theme/toggle [post]
func (h *ThemeHandler) Toggle(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	theme, err := ws.Theme.Toggle(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: theme})
}
