package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// MatchService handles match creation and queries
type MatchService struct {
	matchRepo MatchRepository
	logger    *logging.Logger
}

// NewMatchService creates a new match service
func NewMatchService(matchRepo MatchRepository) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		logger:    logging.WithPrefix("Matches"),
	}
}

// CreateMatch registers a new fixture. The result stays unset until the
// match finalizes through the result service.
func (s *MatchService) CreateMatch(ctx context.Context, match *models.Match) error {
	if err := match.Validate(); err != nil {
		return invalid("%v", err)
	}

	existing, err := s.matchRepo.FindByExternalID(ctx, match.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to check external id: %w", err)
	}
	if existing != nil {
		return ErrMatchExists
	}

	match.Result = nil
	match.ManuallyUpdated = false

	if err := s.matchRepo.Create(ctx, match); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrMatchExists
		}
		return err
	}

	s.logger.Infof("Match %s created: %s vs %s (%s)", match.ExternalID, match.HomeTeam, match.AwayTeam, match.Stage)
	return nil
}

// GetMatch returns a match by id
func (s *MatchService) GetMatch(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// ListMatches returns all matches ordered by start time
func (s *MatchService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	return s.matchRepo.FindAll(ctx)
}

// ListMatchesByStage returns matches for one tournament stage
func (s *MatchService) ListMatchesByStage(ctx context.Context, stage models.Stage) ([]*models.Match, error) {
	if !stage.IsValid() {
		return nil, invalid("invalid stage %q", stage)
	}
	return s.matchRepo.FindByStage(ctx, stage)
}

// ListMatchesByGroup returns group-stage matches for one group label
func (s *MatchService) ListMatchesByGroup(ctx context.Context, group string) ([]*models.Match, error) {
	return s.matchRepo.FindByGroup(ctx, group)
}
