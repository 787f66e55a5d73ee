package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hockey-pool-go/models"
)

// Repository interfaces consumed by the service layer. The Mongo
// implementations live in the database package; tests substitute in-memory
// fakes.

// MatchRepository provides match persistence
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Match, error)
	FindAll(ctx context.Context) ([]*models.Match, error)
	FindByStage(ctx context.Context, stage models.Stage) ([]*models.Match, error)
	FindByGroup(ctx context.Context, group string) ([]*models.Match, error)
	FindFinished(ctx context.Context) ([]*models.Match, error)
	SetSyncedResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, syncedAt time.Time) (bool, error)
	SetManualResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, adminID primitive.ObjectID, updatedAt time.Time) error
}

// LeagueRepository provides league and standings persistence
type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.League, error)
	FindByName(ctx context.Context, name string) (*models.League, error)
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]*models.League, error)
	Update(ctx context.Context, league *models.League) error
	AddMember(ctx context.Context, leagueID primitive.ObjectID, member models.LeagueMember) (bool, error)
	RemoveMember(ctx context.Context, leagueID, userID primitive.ObjectID) error
	UpdateMemberDisplayName(ctx context.Context, leagueID, userID primitive.ObjectID, displayName string) (bool, error)
	AddMemberPoints(ctx context.Context, leagueID, userID primitive.ObjectID, delta int) (bool, error)
}

// PredictionRepository provides prediction persistence
type PredictionRepository interface {
	Upsert(ctx context.Context, p *models.Prediction) error
	FindByTriple(ctx context.Context, userID, matchID, leagueID primitive.ObjectID) (*models.Prediction, error)
	FindUnevaluatedByMatch(ctx context.Context, matchID primitive.ObjectID) ([]*models.Prediction, error)
	FindByUserAndLeague(ctx context.Context, userID, leagueID primitive.ObjectID) ([]*models.Prediction, error)
	FindByMatchAndLeague(ctx context.Context, matchID, leagueID primitive.ObjectID) ([]*models.Prediction, error)
	MarkEvaluated(ctx context.Context, id primitive.ObjectID, points int, details models.EvaluationDetails) (bool, error)
}

// UserRepository provides account persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error
}
