package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// PredictionService gates prediction writes to the legal submission window
// and upholds the one-prediction-per-(user, match, league) invariant.
type PredictionService struct {
	predictionRepo PredictionRepository
	matchRepo      MatchRepository
	leagueRepo     LeagueRepository
	logger         *logging.Logger
	now            func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(predictionRepo PredictionRepository, matchRepo MatchRepository, leagueRepo LeagueRepository) *PredictionService {
	return &PredictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		leagueRepo:     leagueRepo,
		logger:         logging.WithPrefix("Predictions"),
		now:            time.Now,
	}
}

// SubmitPrediction creates or updates the caller's prediction for a match
// within a league. The write is accepted only while the submission window
// is open (up to 30 minutes before puck drop) and only from a current
// league member. Create and update share one upsert so concurrent double
// submission cannot produce two records.
func (s *PredictionService) SubmitPrediction(ctx context.Context, userID, matchID, leagueID primitive.ObjectID, homeScore, awayScore int, endingType models.EndingType) (*models.Prediction, error) {
	now := s.now()

	prediction := &models.Prediction{
		UserID:     userID,
		MatchID:    matchID,
		LeagueID:   leagueID,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		EndingType: endingType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := prediction.Validate(); err != nil {
		return nil, invalid("%v", err)
	}

	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate league: %w", err)
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}

	if !league.HasMember(userID) {
		return nil, ErrNotLeagueMember
	}

	if !match.IsOpenForPredictions(now) {
		return nil, ErrPredictionWindowClosed
	}

	if err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	saved, err := s.predictionRepo.FindByTriple(ctx, userID, matchID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload prediction: %w", err)
	}

	s.logger.Debugf("Prediction saved: user %s, match %s, league %s, %d:%d %s",
		userID.Hex(), match.ExternalID, leagueID.Hex(), homeScore, awayScore, endingType)
	return saved, nil
}

// GetUserPredictions returns the caller's predictions within a league
func (s *PredictionService) GetUserPredictions(ctx context.Context, userID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	return s.predictionRepo.FindByUserAndLeague(ctx, userID, leagueID)
}

// GetMemberPredictions returns one member's predictions within a league.
// Any league member may ask, but another member's prediction only becomes
// visible once its match's submission deadline has passed, matching the
// match-scoped visibility rule.
func (s *PredictionService) GetMemberPredictions(ctx context.Context, callerID, targetID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}
	if !league.HasMember(callerID) {
		return nil, ErrNotLeagueMember
	}

	predictions, err := s.predictionRepo.FindByUserAndLeague(ctx, targetID, leagueID)
	if err != nil {
		return nil, err
	}
	if callerID == targetID {
		return predictions, nil
	}

	now := s.now()
	matchOpen := make(map[string]bool)
	visible := make([]*models.Prediction, 0, len(predictions))
	for _, prediction := range predictions {
		key := prediction.MatchID.Hex()
		open, ok := matchOpen[key]
		if !ok {
			match, err := s.matchRepo.FindByID(ctx, prediction.MatchID)
			if err != nil {
				return nil, fmt.Errorf("failed to load match: %w", err)
			}
			open = match != nil && match.IsOpenForPredictions(now)
			matchOpen[key] = open
		}
		if !open {
			visible = append(visible, prediction)
		}
	}
	return visible, nil
}

// GetMatchPredictions returns predictions for a match within a league.
// Until the submission deadline passes, only the caller's own prediction is
// visible so members cannot copy each other.
func (s *PredictionService) GetMatchPredictions(ctx context.Context, callerID, matchID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}
	if !league.HasMember(callerID) {
		return nil, ErrNotLeagueMember
	}

	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if match.IsOpenForPredictions(s.now()) {
		own, err := s.predictionRepo.FindByTriple(ctx, callerID, matchID, leagueID)
		if err != nil {
			return nil, err
		}
		if own == nil {
			return []*models.Prediction{}, nil
		}
		return []*models.Prediction{own}, nil
	}

	return s.predictionRepo.FindByMatchAndLeague(ctx, matchID, leagueID)
}
