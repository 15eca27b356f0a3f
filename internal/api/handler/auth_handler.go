package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/domain"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type registerRequest struct {
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Role     domain.Role `json:"role" validate:"required,oneof=ADMIN FACULTY STUDENT PARENT"`
	Phone    string      `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User *domain.Principal `json:"user,omitempty"`
}

type pendingResponse struct {
	Pending bool   `json:"pending"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

type meResponse struct {
	State string            `json:"state"`
	User  *domain.Principal `json:"user"`
}

// Register creates an account. Accounts that need approval answer 202 with
// the backend message; others are signed in immediately.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Success      202   {object}  pendingResponse
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reg, err := ws.Session.Register(c.Request().Context(), domain.RegisterFields{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	if reg.Pending {
		return c.JSON(http.StatusAccepted, pendingResponse{Pending: true, Message: reg.Message, UserID: reg.UserID})
	}
	return c.JSON(http.StatusCreated, authResponse{User: reg.Principal})
}

// Login signs the browser session in.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := ws.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: p})
}

// Logout clears the session credential.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.Session.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in principal.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ws, p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{State: ws.Session.State().String(), User: p})
}
