package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sadhana-school/portal/internal/core/domain"
)

const (
	collectionDrafts = "registration_drafts"
	// DraftRetention is how long an untouched draft is kept.
	DraftRetention = 7 * 24 * time.Hour
)

type DraftRepository struct {
	col *mongo.Collection
}

func NewDraftRepository(db *mongo.Database) *DraftRepository {
	return &DraftRepository{col: db.Collection(collectionDrafts)}
}

// Save upserts the draft by id.
func (r *DraftRepository) Save(ctx context.Context, d *domain.RegistrationDraft) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d.UpdatedAt = time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = d.UpdatedAt
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": d.ID, "session_id": d.SessionID},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The id exists under another session.
			return domain.ErrDraftNotFound
		}
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Find retrieves a draft owned by the session.
func (r *DraftRepository) Find(ctx context.Context, sessionID, id string) (*domain.RegistrationDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.RegistrationDraft
	err := r.col.FindOne(ctx, bson.M{"_id": id, "session_id": sessionID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("find draft: %w", err)
	}
	return &d, nil
}

func (r *DraftRepository) Delete(ctx context.Context, sessionID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "session_id": sessionID}); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// EnsureIndexes creates the session lookup index and expires stale drafts.
func (r *DraftRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(DraftRetention.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
