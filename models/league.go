package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoringRules maps each evaluation criterion to the points it awards.
// A zero weight disables the criterion for the league.
type ScoringRules struct {
	ExactScore             int `json:"exactScore" bson:"exactScore"`
	CorrectWinner          int `json:"correctWinner" bson:"correctWinner"`
	CorrectScoreDifference int `json:"correctScoreDifference" bson:"correctScoreDifference"`
	CorrectHomeGoals       int `json:"correctHomeGoals" bson:"correctHomeGoals"`
	CorrectAwayGoals       int `json:"correctAwayGoals" bson:"correctAwayGoals"`
	CorrectEndingType      int `json:"correctEndingType" bson:"correctEndingType"`
}

// DefaultScoringRules returns the standard weights a new league starts with
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		ExactScore:             5,
		CorrectWinner:          2,
		CorrectScoreDifference: 3,
		CorrectHomeGoals:       1,
		CorrectAwayGoals:       1,
		CorrectEndingType:      1,
	}
}

// Validate rejects negative weights. Zero is allowed to disable a criterion.
func (r ScoringRules) Validate() error {
	weights := map[string]int{
		"exactScore":             r.ExactScore,
		"correctWinner":          r.CorrectWinner,
		"correctScoreDifference": r.CorrectScoreDifference,
		"correctHomeGoals":       r.CorrectHomeGoals,
		"correctAwayGoals":       r.CorrectAwayGoals,
		"correctEndingType":      r.CorrectEndingType,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("scoring rule %s must not be negative, got %d", name, w)
		}
	}
	return nil
}

// LeagueMember is one user's membership entry inside a league
type LeagueMember struct {
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	JoinedAt    time.Time          `json:"joinedAt" bson:"joinedAt"`
	TotalPoints int                `json:"totalPoints" bson:"totalPoints"`
}

// League is a named, password-gated group with its own scoring rules
type League struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Password     string             `json:"-" bson:"password"`
	CreatedBy    primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	ScoringRules ScoringRules       `json:"scoringRules" bson:"scoringRules"`
	Members      []LeagueMember     `json:"members" bson:"members"`
}

// HasMember returns true if the user appears in the league's member list
func (l *League) HasMember(userID primitive.ObjectID) bool {
	for _, m := range l.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberByUserID returns the membership entry for a user, or nil
func (l *League) MemberByUserID(userID primitive.ObjectID) *LeagueMember {
	for i := range l.Members {
		if l.Members[i].UserID == userID {
			return &l.Members[i]
		}
	}
	return nil
}
