package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// FixtureFeed supplies finished-fixture data from the external sports feed
type FixtureFeed interface {
	FetchSeasonEvents(ctx context.Context) ([]FeedEvent, error)
}

// ResultService is the single entry point for mutating match results. It
// enforces the precedence rule: a manual update always wins and permanently
// disables feed synchronization for that match.
type ResultService struct {
	matchRepo  MatchRepository
	feed       FixtureFeed
	evaluation *EvaluationService
	logger     *logging.Logger
}

// NewResultService creates a new result service
func NewResultService(matchRepo MatchRepository, feed FixtureFeed, evaluation *EvaluationService) *ResultService {
	return &ResultService{
		matchRepo:  matchRepo,
		feed:       feed,
		evaluation: evaluation,
		logger:     logging.WithPrefix("Results"),
	}
}

// SetManualResult records an admin-entered result. It writes
// unconditionally, marks the match as manually overridden, and triggers
// evaluation of outstanding predictions.
func (s *ResultService) SetManualResult(ctx context.Context, matchID primitive.ObjectID, homeScore, awayScore int, endingType models.EndingType, adminID primitive.ObjectID) (*models.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, invalid("scores must not be negative")
	}
	if !endingType.IsValid() {
		return nil, invalid("invalid ending type %q", endingType)
	}

	result := models.MatchResult{
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		EndingType: endingType,
		Finished:   true,
	}

	err := s.matchRepo.SetManualResult(ctx, matchID, result, adminID, time.Now())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to store manual result: %w", err)
	}

	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	s.logger.Infof("Manual result set for match %s: %d:%d (%s) by admin %s",
		match.ExternalID, homeScore, awayScore, endingType, adminID.Hex())

	if err := s.evaluation.EvaluateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to evaluate predictions: %w", err)
	}

	return match, nil
}

// SyncResults runs one synchronization pass against the external feed. A
// feed failure aborts the whole cycle; fixtures already committed in this
// cycle stay committed. Per-fixture problems (unknown id, unparseable
// scores, manual override) are logged and skipped without affecting the
// rest of the pass.
func (s *ResultService) SyncResults(ctx context.Context) error {
	events, err := s.feed.FetchSeasonEvents(ctx)
	if err != nil {
		return fmt.Errorf("sync cycle aborted: %w", err)
	}

	updated := 0
	for _, event := range events {
		if !event.IsFinished() {
			continue
		}

		if err := s.applySyncedResult(ctx, &event); err != nil {
			s.logger.Warnf("Skipping fixture %s: %v", event.ID, err)
			continue
		}
		updated++
	}

	s.logger.Infof("Sync pass complete: %d of %d fixtures applied", updated, len(events))
	return nil
}

// applySyncedResult applies one finished feed fixture to its match
func (s *ResultService) applySyncedResult(ctx context.Context, event *FeedEvent) error {
	match, err := s.matchRepo.FindByExternalID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if match == nil {
		return fmt.Errorf("no match with external id %s", event.ID)
	}

	if match.ManuallyUpdated {
		s.logger.Debugf("Match %s was manually updated, skipping sync", event.ID)
		return nil
	}

	homeScore, awayScore, err := event.ParseScores()
	if err != nil {
		return err
	}

	result := models.MatchResult{
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		EndingType: event.EndingType(),
		Finished:   true,
	}

	// The repository re-checks the manual-override flag inside the update
	// filter, so a manual edit racing this pass still wins.
	applied, err := s.matchRepo.SetSyncedResult(ctx, match.ID, result, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store synced result: %w", err)
	}
	if !applied {
		s.logger.Debugf("Match %s manually overridden during sync, result not applied", event.ID)
		return nil
	}

	match.Result = &result
	if err := s.evaluation.EvaluateMatch(ctx, match); err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	return nil
}

// EvaluateAllFinished re-runs evaluation for every finished match. Safe to
// invoke at any time: already-evaluated predictions are skipped by the
// evaluated-flag gate.
func (s *ResultService) EvaluateAllFinished(ctx context.Context) error {
	matches, err := s.matchRepo.FindFinished(ctx)
	if err != nil {
		return fmt.Errorf("failed to load finished matches: %w", err)
	}

	for _, match := range matches {
		if err := s.evaluation.EvaluateMatch(ctx, match); err != nil {
			s.logger.Errorf("Evaluation failed for match %s: %v", match.ExternalID, err)
		}
	}

	return nil
}
