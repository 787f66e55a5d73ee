package services

import (
	"context"
	"fmt"

	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// EvaluationService scores outstanding predictions once a match finalizes
// and folds the awarded points into league standings exactly once per
// prediction.
type EvaluationService struct {
	predictionRepo PredictionRepository
	leagueRepo     LeagueRepository
	logger         *logging.Logger
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(predictionRepo PredictionRepository, leagueRepo LeagueRepository) *EvaluationService {
	return &EvaluationService{
		predictionRepo: predictionRepo,
		leagueRepo:     leagueRepo,
		logger:         logging.WithPrefix("Evaluation"),
	}
}

// EvaluateMatch scores every unevaluated prediction for a finalized match.
// A failure on one prediction is logged and does not block the others. The
// method is safe to call repeatedly and concurrently: the evaluated-flag
// compare-and-set in the repository guarantees each prediction's points are
// applied to standings at most once.
func (s *EvaluationService) EvaluateMatch(ctx context.Context, match *models.Match) error {
	if !match.IsFinished() {
		return fmt.Errorf("match %s is not finished", match.ExternalID)
	}

	predictions, err := s.predictionRepo.FindUnevaluatedByMatch(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("failed to load predictions for match %s: %w", match.ExternalID, err)
	}

	if len(predictions) == 0 {
		s.logger.Debugf("No unevaluated predictions for match %s", match.ExternalID)
		return nil
	}

	// League rule sets are stable during a pass; cache per league
	rulesByLeague := make(map[string]models.ScoringRules)

	evaluated := 0
	for _, prediction := range predictions {
		rules, ok := rulesByLeague[prediction.LeagueID.Hex()]
		if !ok {
			league, err := s.leagueRepo.FindByID(ctx, prediction.LeagueID)
			if err != nil {
				s.logger.Errorf("Failed to load league %s: %v", prediction.LeagueID.Hex(), err)
				continue
			}
			if league == nil {
				s.logger.Warnf("Prediction %s references unknown league %s, skipping",
					prediction.ID.Hex(), prediction.LeagueID.Hex())
				continue
			}
			rules = league.ScoringRules
			rulesByLeague[prediction.LeagueID.Hex()] = rules
		}

		points, details := models.ScorePrediction(prediction, match.Result, rules)

		// Compare-and-set on the evaluated flag. Losing the race means
		// another pass already applied this prediction's points.
		applied, err := s.predictionRepo.MarkEvaluated(ctx, prediction.ID, points, details)
		if err != nil {
			s.logger.Errorf("Failed to mark prediction %s evaluated: %v", prediction.ID.Hex(), err)
			continue
		}
		if !applied {
			s.logger.Debugf("Prediction %s already evaluated by a concurrent pass", prediction.ID.Hex())
			continue
		}

		matched, err := s.leagueRepo.AddMemberPoints(ctx, prediction.LeagueID, prediction.UserID, points)
		if err != nil {
			s.logger.Errorf("Failed to add %d points for user %s in league %s: %v",
				points, prediction.UserID.Hex(), prediction.LeagueID.Hex(), err)
			continue
		}
		if !matched {
			s.logger.Warnf("User %s not in league %s roster, points not applied",
				prediction.UserID.Hex(), prediction.LeagueID.Hex())
			continue
		}

		evaluated++
	}

	s.logger.Infof("Evaluated %d of %d predictions for match %s (%s %d:%d %s)",
		evaluated, len(predictions), match.ExternalID,
		match.HomeTeam, match.Result.HomeScore, match.Result.AwayScore, match.AwayTeam)
	return nil
}
