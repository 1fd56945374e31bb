// internal/domain/models/onboarding.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OnboardingRecord is the audit document written after a completed onboarding.
// It is informational only: writes are best-effort and never fail the
// onboarding workflow.
type OnboardingRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID string             `bson:"request_id" json:"request_id"`
	MemberID  string             `bson:"member_id" json:"member_id"`
	Region    string             `bson:"region" json:"region"`
	Locality  string             `bson:"locality" json:"locality"`
	Interest  string             `bson:"interest" json:"interest"`
	ChannelID string             `bson:"channel_id" json:"channel_id"` // locality channel the member landed in
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
