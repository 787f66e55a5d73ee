package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage represents the tournament stage a match belongs to
type Stage string

const (
	StageGroup        Stage = "group"
	StageQuarterfinal Stage = "quarterfinal"
	StageSemifinal    Stage = "semifinal"
	StageBronze       Stage = "bronze"
	StageFinal        Stage = "final"
)

// IsValid returns true if the stage is one of the known tournament stages
func (s Stage) IsValid() bool {
	switch s {
	case StageGroup, StageQuarterfinal, StageSemifinal, StageBronze, StageFinal:
		return true
	}
	return false
}

// EndingType represents how a match concluded
type EndingType string

const (
	EndingRegular  EndingType = "regular"
	EndingOvertime EndingType = "overtime"
	EndingShootout EndingType = "shootout"
)

// IsValid returns true if the ending type is one of the known values
func (e EndingType) IsValid() bool {
	switch e {
	case EndingRegular, EndingOvertime, EndingShootout:
		return true
	}
	return false
}

// PredictionDeadlineBuffer is how long before puck drop predictions lock
const PredictionDeadlineBuffer = 30 * time.Minute

// MatchResult holds the final outcome of a match. Unset until Finished.
type MatchResult struct {
	HomeScore  int        `json:"homeScore" bson:"homeScore"`
	AwayScore  int        `json:"awayScore" bson:"awayScore"`
	EndingType EndingType `json:"endingType" bson:"endingType"`
	Finished   bool       `json:"finished" bson:"finished"`
}

// Outcome categories for the three-way winner comparison
type Outcome string

const (
	OutcomeHomeWin Outcome = "home"
	OutcomeAwayWin Outcome = "away"
	OutcomeDraw    Outcome = "draw"
)

// OutcomeOf classifies a scoreline as home win, away win, or draw
func OutcomeOf(homeScore, awayScore int) Outcome {
	if homeScore > awayScore {
		return OutcomeHomeWin
	}
	if homeScore < awayScore {
		return OutcomeAwayWin
	}
	return OutcomeDraw
}

// Match represents a single tournament fixture
type Match struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ExternalID   string             `json:"matchId" bson:"matchId"`
	HomeTeam     string             `json:"homeTeam" bson:"homeTeam"`
	AwayTeam     string             `json:"awayTeam" bson:"awayTeam"`
	HomeTeamFlag string             `json:"homeTeamFlag" bson:"homeTeamFlag"`
	AwayTeamFlag string             `json:"awayTeamFlag" bson:"awayTeamFlag"`
	Stage        Stage              `json:"stage" bson:"stage"`
	Group        string             `json:"group,omitempty" bson:"group,omitempty"`
	StartTime    time.Time          `json:"startTime" bson:"startTime"`
	Result       *MatchResult       `json:"result,omitempty" bson:"result,omitempty"`

	// Result provenance
	APIUpdatedAt      *time.Time          `json:"apiUpdatedAt,omitempty" bson:"apiUpdatedAt,omitempty"`
	ManuallyUpdated   bool                `json:"manuallyUpdated" bson:"manuallyUpdated"`
	ManuallyUpdatedAt *time.Time          `json:"manuallyUpdatedAt,omitempty" bson:"manuallyUpdatedAt,omitempty"`
	ManuallyUpdatedBy *primitive.ObjectID `json:"manuallyUpdatedBy,omitempty" bson:"manuallyUpdatedBy,omitempty"`
}

// Validate checks the stage/group tagged-variant invariant and required fields
func (m *Match) Validate() error {
	if m.ExternalID == "" {
		return fmt.Errorf("match external id is required")
	}
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return fmt.Errorf("both team names are required")
	}
	if !m.Stage.IsValid() {
		return fmt.Errorf("invalid stage %q", m.Stage)
	}
	if m.Stage == StageGroup && m.Group == "" {
		return fmt.Errorf("group label is required for group stage matches")
	}
	if m.Stage != StageGroup && m.Group != "" {
		return fmt.Errorf("group label is only valid for group stage matches")
	}
	if m.StartTime.IsZero() {
		return fmt.Errorf("start time is required")
	}
	return nil
}

// IsFinished returns true once the match has an authoritative result
func (m *Match) IsFinished() bool {
	return m.Result != nil && m.Result.Finished
}

// Deadline returns the prediction submission cutoff for this match
func (m *Match) Deadline() time.Time {
	return m.StartTime.Add(-PredictionDeadlineBuffer)
}

// IsOpenForPredictions returns true if predictions can still be submitted at t
func (m *Match) IsOpenForPredictions(t time.Time) bool {
	return !t.After(m.Deadline())
}
