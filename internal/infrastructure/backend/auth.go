package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sadhana-school/portal/internal/core/domain"
)

var errMissingToken = errors.New("login response carried no access token")

type userPayload struct {
	UserID   string  `json:"user_id"`
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func (u *userPayload) principal() *domain.Principal {
	if u == nil {
		return nil
	}
	p := &domain.Principal{
		ID:            u.UserID,
		Email:         u.Email,
		DisplayName:   u.Name,
		Role:          domain.ParseRole(u.Role),
		ApprovalState: domain.ApprovalActive,
	}
	if p.ID == "" {
		p.ID = u.ID
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.IsActive != nil && !*u.IsActive {
		p.ApprovalState = domain.ApprovalPending
	}
	return p
}

type tokenPayload struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *userPayload `json:"user"`
}

// Login exchanges an email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthGrant, error) {
	var tok tokenPayload
	err := c.do(ctx, "", request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		public: true,
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errMissingToken
	}
	return &domain.AuthGrant{AccessToken: tok.AccessToken, User: tok.User.principal()}, nil
}

// Register creates an account. The backend either signs the user in
// immediately or answers with a message while approval is pending.
func (c *Client) Register(ctx context.Context, fields domain.RegisterFields) (*domain.RegisterReply, error) {
	body := map[string]any{
		"email":    fields.Email,
		"password": fields.Password,
		"name":     fields.Name,
		"role":     string(fields.Role),
	}
	if fields.Phone != "" {
		body["phone"] = fields.Phone
	}

	var raw json.RawMessage
	if err := c.do(ctx, "", request{method: http.MethodPost, path: "/auth/register", body: body, public: true}, &raw); err != nil {
		return nil, err
	}
	return decodeRegisterReply(raw)
}

func decodeRegisterReply(raw json.RawMessage) (*domain.RegisterReply, error) {
	reply := &domain.RegisterReply{Raw: map[string]any{}}
	if len(raw) == 0 {
		return reply, nil
	}
	if err := json.Unmarshal(raw, &reply.Raw); err != nil {
		return nil, err
	}
	var tok tokenPayload
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	reply.AccessToken = tok.AccessToken
	reply.User = tok.User.principal()
	if msg, ok := reply.Raw["message"].(string); ok {
		reply.Message = msg
	}
	reply.AccountID = AccountID(reply.Raw)
	if reply.AccountID == "" && reply.User != nil {
		reply.AccountID = reply.User.ID
	}
	return reply, nil
}

// AccountID picks the account identifier out of a registration reply: the
// user_id field, else the local part of the email, else the storage _id.
func AccountID(raw map[string]any) string {
	if id, ok := raw["user_id"].(string); ok && id != "" {
		return id
	}
	if email, ok := raw["email"].(string); ok && email != "" {
		local, _, _ := strings.Cut(email, "@")
		if local != "" {
			return local
		}
	}
	if id, ok := raw["_id"].(string); ok {
		return id
	}
	return ""
}

// CurrentUser resolves the principal behind a credential.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.Principal, error) {
	var u userPayload
	if err := c.do(ctx, token, request{method: http.MethodGet, path: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return u.principal(), nil
}
