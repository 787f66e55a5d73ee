package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EvaluationDetails records which scoring criteria a prediction satisfied
type EvaluationDetails struct {
	ExactScore             bool `json:"exactScore" bson:"exactScore"`
	CorrectWinner          bool `json:"correctWinner" bson:"correctWinner"`
	CorrectScoreDifference bool `json:"correctScoreDifference" bson:"correctScoreDifference"`
	CorrectHomeGoals       bool `json:"correctHomeGoals" bson:"correctHomeGoals"`
	CorrectAwayGoals       bool `json:"correctAwayGoals" bson:"correctAwayGoals"`
	CorrectEndingType      bool `json:"correctEndingType" bson:"correctEndingType"`
}

// Prediction is one user's forecast for one match within one league.
// Exactly one prediction exists per (user, match, league); the repository
// enforces this with a unique compound index.
type Prediction struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"user_id"`
	LeagueID   primitive.ObjectID `json:"leagueId" bson:"league_id"`
	MatchID    primitive.ObjectID `json:"matchId" bson:"match_id"`
	HomeScore  int                `json:"homeScore" bson:"homeScore"`
	AwayScore  int                `json:"awayScore" bson:"awayScore"`
	EndingType EndingType         `json:"endingType" bson:"endingType"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
	Points     int                `json:"points" bson:"points"`
	Evaluated  bool               `json:"evaluated" bson:"evaluated"`
	Details    EvaluationDetails  `json:"evaluationDetails" bson:"evaluationDetails"`
}

// Validate checks the predicted fields before submission
func (p *Prediction) Validate() error {
	if p.HomeScore < 0 || p.AwayScore < 0 {
		return fmt.Errorf("predicted scores must not be negative")
	}
	if !p.EndingType.IsValid() {
		return fmt.Errorf("invalid ending type %q", p.EndingType)
	}
	return nil
}

// ScorePrediction scores a prediction against a finalized result under the
// given rule set. The six criteria are independent and cumulative; a zero
// weight disables a criterion without suppressing its detail flag. The
// function is pure: identical inputs always produce identical output.
func ScorePrediction(p *Prediction, result *MatchResult, rules ScoringRules) (int, EvaluationDetails) {
	var details EvaluationDetails
	points := 0

	if p.HomeScore == result.HomeScore && p.AwayScore == result.AwayScore {
		details.ExactScore = true
		points += rules.ExactScore
	}

	if OutcomeOf(p.HomeScore, p.AwayScore) == OutcomeOf(result.HomeScore, result.AwayScore) {
		details.CorrectWinner = true
		points += rules.CorrectWinner
	}

	// Signed numeric difference, not a winner check: 3-1 and 2-0 both +2
	if p.HomeScore-p.AwayScore == result.HomeScore-result.AwayScore {
		details.CorrectScoreDifference = true
		points += rules.CorrectScoreDifference
	}

	if p.HomeScore == result.HomeScore {
		details.CorrectHomeGoals = true
		points += rules.CorrectHomeGoals
	}

	if p.AwayScore == result.AwayScore {
		details.CorrectAwayGoals = true
		points += rules.CorrectAwayGoals
	}

	if p.EndingType == result.EndingType {
		details.CorrectEndingType = true
		points += rules.CorrectEndingType
	}

	return points, details
}
