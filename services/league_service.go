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

// LeagueService handles league lifecycle and membership
type LeagueService struct {
	leagueRepo LeagueRepository
	logger     *logging.Logger
}

// NewLeagueService creates a new league service
func NewLeagueService(leagueRepo LeagueRepository) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		logger:     logging.WithPrefix("Leagues"),
	}
}

// CreateLeague creates a league with default scoring rules and the creator
// as its first member.
func (s *LeagueService) CreateLeague(ctx context.Context, creatorID primitive.ObjectID, name, password, displayName string) (*models.League, error) {
	if name == "" {
		return nil, invalid("league name is required")
	}
	if password == "" {
		return nil, invalid("league password is required")
	}
	if displayName == "" {
		return nil, invalid("display name is required")
	}

	existing, err := s.leagueRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check league name: %w", err)
	}
	if existing != nil {
		return nil, ErrLeagueNameTaken
	}

	now := time.Now()
	league := &models.League{
		Name:         name,
		Password:     password,
		CreatedBy:    creatorID,
		CreatedAt:    now,
		ScoringRules: models.DefaultScoringRules(),
		Members: []models.LeagueMember{
			{
				UserID:      creatorID,
				DisplayName: displayName,
				JoinedAt:    now,
			},
		},
	}

	if err := s.leagueRepo.Create(ctx, league); err != nil {
		// A concurrent create with the same name loses against the
		// unique index rather than producing a duplicate.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrLeagueNameTaken
		}
		return nil, err
	}

	s.logger.Infof("League %q created by %s", name, creatorID.Hex())
	return league, nil
}

// JoinLeague adds a user to an existing league by name and password
func (s *LeagueService) JoinLeague(ctx context.Context, userID primitive.ObjectID, name, password, displayName string) (*models.League, error) {
	if displayName == "" {
		return nil, invalid("display name is required")
	}

	league, err := s.leagueRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find league: %w", err)
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}

	if league.Password != password {
		return nil, ErrLeaguePasswordMismatch
	}

	member := models.LeagueMember{
		UserID:      userID,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}

	added, err := s.leagueRepo.AddMember(ctx, league.ID, member)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyLeagueMember
	}

	s.logger.Infof("User %s joined league %q as %q", userID.Hex(), name, displayName)
	return s.leagueRepo.FindByID(ctx, league.ID)
}

// GetLeague returns a league to one of its members
func (s *LeagueService) GetLeague(ctx context.Context, callerID, leagueID primitive.ObjectID) (*models.League, error) {
	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}
	if !league.HasMember(callerID) {
		return nil, ErrNotLeagueMember
	}
	return league, nil
}

// ListLeaguesForUser returns every league the user is a member of
func (s *LeagueService) ListLeaguesForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.League, error) {
	return s.leagueRepo.FindByMember(ctx, userID)
}

// UpdateLeague lets the creator change name, password, or scoring rules.
// Rule changes only affect evaluations that happen afterwards.
func (s *LeagueService) UpdateLeague(ctx context.Context, callerID, leagueID primitive.ObjectID, name, password string, rules *models.ScoringRules) (*models.League, error) {
	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}
	if league.CreatedBy != callerID {
		return nil, ErrNotLeagueCreator
	}

	if name != "" && name != league.Name {
		existing, err := s.leagueRepo.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check league name: %w", err)
		}
		if existing != nil {
			return nil, ErrLeagueNameTaken
		}
		league.Name = name
	}
	if password != "" {
		league.Password = password
	}
	if rules != nil {
		if err := rules.Validate(); err != nil {
			return nil, invalid("%v", err)
		}
		league.ScoringRules = *rules
	}

	if err := s.leagueRepo.Update(ctx, league); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrLeagueNameTaken
		}
		return nil, err
	}

	return league, nil
}

// UpdateDisplayName changes how the caller appears in one league's roster
// and standings.
func (s *LeagueService) UpdateDisplayName(ctx context.Context, userID, leagueID primitive.ObjectID, displayName string) (*models.League, error) {
	if displayName == "" {
		return nil, invalid("display name is required")
	}

	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league == nil {
		return nil, ErrLeagueNotFound
	}

	updated, err := s.leagueRepo.UpdateMemberDisplayName(ctx, leagueID, userID, displayName)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotLeagueMember
	}

	return s.leagueRepo.FindByID(ctx, leagueID)
}

// RemoveMember lets the creator remove a member from the league
func (s *LeagueService) RemoveMember(ctx context.Context, callerID, leagueID, userID primitive.ObjectID) error {
	league, err := s.leagueRepo.FindByID(ctx, leagueID)
	if err != nil {
		return err
	}
	if league == nil {
		return ErrLeagueNotFound
	}
	if league.CreatedBy != callerID {
		return ErrNotLeagueCreator
	}

	if err := s.leagueRepo.RemoveMember(ctx, leagueID, userID); err != nil {
		return err
	}

	s.logger.Infof("User %s removed from league %q by %s", userID.Hex(), league.Name, callerID.Hex())
	return nil
}
