// internal/app/store/onboardings/onboardings.go
package onboardings

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Store records completed onboardings for auditing. The workflow writes here
// after its side effects succeed; failures are logged by the caller and never
// abort an onboarding.
type Store struct {
	col *mongo.Collection
}

// NewStore creates a Store over the "onboardings" collection.
func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("onboardings")}
}

// EnsureIndexes creates the indexes the store queries by.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "region", Value: 1}, {Key: "locality", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("onboardings: creating indexes: %w", err)
	}
	return nil
}

// Record inserts an audit document for a completed onboarding.
func (s *Store) Record(ctx context.Context, rec models.OnboardingRecord) error {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now().UTC()

	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("onboardings: inserting record: %w", err)
	}
	return nil
}

// ListByMember returns a member's onboarding records, newest first.
func (s *Store) ListByMember(ctx context.Context, memberID string) ([]models.OnboardingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("onboardings: querying by member: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.OnboardingRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("onboardings: decoding records: %w", err)
	}
	return out, nil
}
