package ports

import (
	"context"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// DraftRepository persists in-progress student registrations.
type DraftRepository interface {
	Save(ctx context.Context, draft *domain.RegistrationDraft) error
	// Find returns domain.ErrDraftNotFound when no draft with that id belongs
	// to the session.
	Find(ctx context.Context, sessionID, id string) (*domain.RegistrationDraft, error)
	Delete(ctx context.Context, sessionID, id string) error
}
