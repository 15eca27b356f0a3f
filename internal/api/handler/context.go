package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/api/workspace"
	"github.com/sadhana-school/portal/internal/core/domain"
)

var errNoWorkspace = errors.New("handler: no workspace on request")

// ctxWorkspace returns the request's workspace and fails fast when the
// workspace middleware did not run.
func ctxWorkspace(c echo.Context) (*workspace.Workspace, error) {
	ws := workspace.From(c)
	if ws == nil {
		return nil, errNoWorkspace
	}
	return ws, nil
}

// ctxPrincipal returns the workspace and its signed-in principal.
func ctxPrincipal(c echo.Context) (*workspace.Workspace, *domain.Principal, error) {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return nil, nil, err
	}
	p, err := ws.Session.RequirePrincipal()
	if err != nil {
		return nil, nil, err
	}
	return ws, p, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
