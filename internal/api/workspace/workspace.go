// Package workspace opens the per-request view of one browser session: its
// session store, the backend client bound to that session and its theme.
package workspace

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/api/middleware"
	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/core/session"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
)

const contextKey = "workspace"

// Workspace is everything a handler needs for one browser session.
type Workspace struct {
	SessionID string
	Session   *session.Store
	API       *backend.API
	Theme     *service.ThemeService
}

// StorageFunc returns the durable storage of one portal session.
type StorageFunc func(sid string) ports.Storage

// Opener builds workspaces over a shared backend client.
type Opener struct {
	client  *backend.Client
	storage StorageFunc
	log     zerolog.Logger
}

func NewOpener(client *backend.Client, storage StorageFunc, log zerolog.Logger) *Opener {
	return &Opener{client: client, storage: storage, log: log}
}

// Client is the shared backend client, for calls made without a session.
func (o *Opener) Client() *backend.Client { return o.client }

// Middleware opens the workspace of the request's portal session and
// restores any persisted credential. It must run after middleware.Session.
func (o *Opener) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := middleware.SessionID(c)
			if sid == "" {
				return fmt.Errorf("workspace: request has no portal session")
			}
			ctx := c.Request().Context()
			st := o.storage(sid)
			log := o.log.With().Str("sid", sid).Logger()

			sess := session.New(st, o.client, log)
			if err := sess.Bootstrap(ctx); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}
			theme, err := service.NewThemeService(ctx, st)
			if err != nil {
				return fmt.Errorf("load theme: %w", err)
			}

			theme.Subscribe(func(t domain.Theme) {
				log.Debug().Str("theme", string(t)).Msg("theme changed")
			})

			Set(c, &Workspace{
				SessionID: sid,
				Session:   sess,
				API:       o.client.As(sess),
				Theme:     theme,
			})
			return next(c)
		}
	}
}

// From returns the workspace opened by Middleware.
func From(c echo.Context) *Workspace {
	ws, _ := c.Get(contextKey).(*Workspace)
	return ws
}

// Set installs a workspace on the context and keeps the request principal
// in step with the session for the rest of the request.
func Set(c echo.Context, ws *Workspace) {
	c.Set(contextKey, ws)
	if p := ws.Session.Principal(); p != nil {
		c.Set(middleware.PrincipalKey, p)
	}
	ws.Session.Subscribe(func(p *domain.Principal) {
		if p == nil {
			c.Set(middleware.PrincipalKey, nil)
			return
		}
		c.Set(middleware.PrincipalKey, p)
	})
}
