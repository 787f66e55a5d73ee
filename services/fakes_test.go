package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hockey-pool-go/models"
)

// In-memory repository fakes mirroring the atomicity guarantees of the
// Mongo implementations: conditional updates report whether they applied.

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[primitive.ObjectID]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[primitive.ObjectID]*models.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, nil
	}
	clone := *match
	return &clone, nil
}

func (r *fakeMatchRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, match := range r.matches {
		if match.ExternalID == externalID {
			clone := *match
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeMatchRepo) FindAll(ctx context.Context) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0, len(r.matches))
	for _, match := range r.matches {
		clone := *match
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeMatchRepo) FindByStage(ctx context.Context, stage models.Stage) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, match := range r.matches {
		if match.Stage == stage {
			clone := *match
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) FindByGroup(ctx context.Context, group string) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, match := range r.matches {
		if match.Group == group {
			clone := *match
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) FindFinished(ctx context.Context) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, match := range r.matches {
		if match.IsFinished() {
			clone := *match
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) SetSyncedResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, syncedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok || match.ManuallyUpdated {
		return false, nil
	}
	res := result
	match.Result = &res
	match.APIUpdatedAt = &syncedAt
	return true, nil
}

func (r *fakeMatchRepo) SetManualResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, adminID primitive.ObjectID, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	res := result
	match.Result = &res
	match.ManuallyUpdated = true
	match.ManuallyUpdatedAt = &updatedAt
	match.ManuallyUpdatedBy = &adminID
	return nil
}

type fakeLeagueRepo struct {
	mu      sync.Mutex
	leagues map[primitive.ObjectID]*models.League
}

func newFakeLeagueRepo() *fakeLeagueRepo {
	return &fakeLeagueRepo{leagues: make(map[primitive.ObjectID]*models.League)}
}

func cloneLeague(l *models.League) *models.League {
	clone := *l
	clone.Members = append([]models.LeagueMember(nil), l.Members...)
	return &clone
}

func (r *fakeLeagueRepo) Create(ctx context.Context, league *models.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if league.ID.IsZero() {
		league.ID = primitive.NewObjectID()
	}
	r.leagues[league.ID] = cloneLeague(league)
	return nil
}

func (r *fakeLeagueRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[id]
	if !ok {
		return nil, nil
	}
	return cloneLeague(league), nil
}

func (r *fakeLeagueRepo) FindByName(ctx context.Context, name string) (*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, league := range r.leagues {
		if league.Name == name {
			return cloneLeague(league), nil
		}
	}
	return nil, nil
}

func (r *fakeLeagueRepo) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.League
	for _, league := range r.leagues {
		if league.HasMember(userID) {
			out = append(out, cloneLeague(league))
		}
	}
	return out, nil
}

func (r *fakeLeagueRepo) Update(ctx context.Context, league *models.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.leagues[league.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	stored.Name = league.Name
	stored.Password = league.Password
	stored.ScoringRules = league.ScoringRules
	return nil
}

func (r *fakeLeagueRepo) AddMember(ctx context.Context, leagueID primitive.ObjectID, member models.LeagueMember) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[leagueID]
	if !ok || league.HasMember(member.UserID) {
		return false, nil
	}
	league.Members = append(league.Members, member)
	return true, nil
}

func (r *fakeLeagueRepo) RemoveMember(ctx context.Context, leagueID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[leagueID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i, m := range league.Members {
		if m.UserID == userID {
			league.Members = append(league.Members[:i], league.Members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeLeagueRepo) UpdateMemberDisplayName(ctx context.Context, leagueID, userID primitive.ObjectID, displayName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[leagueID]
	if !ok {
		return false, nil
	}
	for i := range league.Members {
		if league.Members[i].UserID == userID {
			league.Members[i].DisplayName = displayName
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeagueRepo) AddMemberPoints(ctx context.Context, leagueID, userID primitive.ObjectID, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[leagueID]
	if !ok {
		return false, nil
	}
	for i := range league.Members {
		if league.Members[i].UserID == userID {
			league.Members[i].TotalPoints += delta
			return true, nil
		}
	}
	return false, nil
}

type fakePredictionRepo struct {
	mu          sync.Mutex
	predictions map[primitive.ObjectID]*models.Prediction
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{predictions: make(map[primitive.ObjectID]*models.Prediction)}
}

func (r *fakePredictionRepo) Upsert(ctx context.Context, p *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID && existing.LeagueID == p.LeagueID {
			existing.HomeScore = p.HomeScore
			existing.AwayScore = p.AwayScore
			existing.EndingType = p.EndingType
			existing.UpdatedAt = p.UpdatedAt
			return nil
		}
	}
	clone := *p
	clone.ID = primitive.NewObjectID()
	clone.Evaluated = false
	clone.Points = 0
	r.predictions[clone.ID] = &clone
	return nil
}

func (r *fakePredictionRepo) FindByTriple(ctx context.Context, userID, matchID, leagueID primitive.ObjectID) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.predictions {
		if p.UserID == userID && p.MatchID == matchID && p.LeagueID == leagueID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePredictionRepo) FindUnevaluatedByMatch(ctx context.Context, matchID primitive.ObjectID) ([]*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prediction
	for _, p := range r.predictions {
		if p.MatchID == matchID && !p.Evaluated {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePredictionRepo) FindByUserAndLeague(ctx context.Context, userID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prediction
	for _, p := range r.predictions {
		if p.UserID == userID && p.LeagueID == leagueID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePredictionRepo) FindByMatchAndLeague(ctx context.Context, matchID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prediction
	for _, p := range r.predictions {
		if p.MatchID == matchID && p.LeagueID == leagueID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePredictionRepo) MarkEvaluated(ctx context.Context, id primitive.ObjectID, points int, details models.EvaluationDetails) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.predictions[id]
	if !ok || p.Evaluated {
		return false, nil
	}
	p.Evaluated = true
	p.Points = points
	p.Details = details
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	stored.Name = user.Name
	stored.Password = user.Password
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.IsAdmin = isAdmin
	return nil
}

// fakeFeed returns canned events or an error
type fakeFeed struct {
	events []FeedEvent
	err    error
}

func (f *fakeFeed) FetchSeasonEvents(ctx context.Context) ([]FeedEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}
