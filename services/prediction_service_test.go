package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hockey-pool-go/models"
)

type predictionFixture struct {
	service *PredictionService
	match   *models.Match
	league  *models.League
	alice   primitive.ObjectID
	bob     primitive.ObjectID
}

// newPredictionFixture seeds a match starting at a fixed time and a league
// with two members, with the service clock pinned to now.
func newPredictionFixture(t *testing.T, now time.Time, startTime time.Time) *predictionFixture {
	t.Helper()
	matchRepo := newFakeMatchRepo()
	leagueRepo := newFakeLeagueRepo()
	predictionRepo := newFakePredictionRepo()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	league := seedLeague(t, leagueRepo, models.DefaultScoringRules(), alice, bob)

	match := &models.Match{
		ExternalID: "2070020",
		HomeTeam:   "Finland",
		AwayTeam:   "Sweden",
		Stage:      models.StageGroup,
		Group:      "A",
		StartTime:  startTime,
	}
	require.NoError(t, matchRepo.Create(context.Background(), match))

	service := NewPredictionService(predictionRepo, matchRepo, leagueRepo)
	service.now = func() time.Time { return now }

	return &predictionFixture{service: service, match: match, league: league, alice: alice, bob: bob}
}

func TestSubmitPredictionWithinWindow(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-31*time.Minute), start)

	p, err := f.service.SubmitPrediction(context.Background(), f.alice, f.match.ID, f.league.ID,
		3, 1, models.EndingRegular)
	require.NoError(t, err)

	assert.Equal(t, 3, p.HomeScore)
	assert.Equal(t, 1, p.AwayScore)
	assert.False(t, p.Evaluated)
	assert.Equal(t, 0, p.Points)
}

func TestSubmitPredictionAfterDeadline(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-29*time.Minute), start)

	_, err := f.service.SubmitPrediction(context.Background(), f.alice, f.match.ID, f.league.ID,
		3, 1, models.EndingRegular)
	assert.ErrorIs(t, err, ErrPredictionWindowClosed)
}

func TestSubmitPredictionUpsertKeepsOneRecord(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)
	ctx := context.Background()

	first, err := f.service.SubmitPrediction(ctx, f.alice, f.match.ID, f.league.ID, 2, 0, models.EndingRegular)
	require.NoError(t, err)

	second, err := f.service.SubmitPrediction(ctx, f.alice, f.match.ID, f.league.ID, 4, 2, models.EndingOvertime)
	require.NoError(t, err)

	// Same record, updated in place
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.HomeScore)
	assert.Equal(t, 2, second.AwayScore)
	assert.Equal(t, models.EndingOvertime, second.EndingType)

	all, err := f.service.GetUserPredictions(ctx, f.alice, f.league.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubmitPredictionRequiresMembership(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)

	stranger := primitive.NewObjectID()
	_, err := f.service.SubmitPrediction(context.Background(), stranger, f.match.ID, f.league.ID,
		1, 0, models.EndingRegular)
	assert.ErrorIs(t, err, ErrNotLeagueMember)
}

func TestSubmitPredictionUnknownMatchAndLeague(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)
	ctx := context.Background()

	_, err := f.service.SubmitPrediction(ctx, f.alice, primitive.NewObjectID(), f.league.ID,
		1, 0, models.EndingRegular)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = f.service.SubmitPrediction(ctx, f.alice, f.match.ID, primitive.NewObjectID(),
		1, 0, models.EndingRegular)
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestSubmitPredictionValidation(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)

	_, err := f.service.SubmitPrediction(context.Background(), f.alice, f.match.ID, f.league.ID,
		-1, 0, models.EndingRegular)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMatchPredictionsHidesOthersUntilDeadline(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)
	ctx := context.Background()

	_, err := f.service.SubmitPrediction(ctx, f.alice, f.match.ID, f.league.ID, 3, 1, models.EndingRegular)
	require.NoError(t, err)
	_, err = f.service.SubmitPrediction(ctx, f.bob, f.match.ID, f.league.ID, 0, 2, models.EndingShootout)
	require.NoError(t, err)

	// Window still open: Alice sees only her own prediction
	visible, err := f.service.GetMatchPredictions(ctx, f.alice, f.match.ID, f.league.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, f.alice, visible[0].UserID)

	// After the deadline everything is visible
	f.service.now = func() time.Time { return start.Add(-10 * time.Minute) }
	visible, err = f.service.GetMatchPredictions(ctx, f.alice, f.match.ID, f.league.ID)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}

func TestGetMemberPredictionsHidesOpenMatches(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	matchRepo := newFakeMatchRepo()
	leagueRepo := newFakeLeagueRepo()
	predictionRepo := newFakePredictionRepo()
	ctx := context.Background()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	league := seedLeague(t, leagueRepo, models.DefaultScoringRules(), alice, bob)

	closed := &models.Match{
		ExternalID: "2070021",
		HomeTeam:   "Finland",
		AwayTeam:   "Sweden",
		Stage:      models.StageGroup,
		Group:      "A",
		StartTime:  now.Add(-time.Hour),
	}
	open := &models.Match{
		ExternalID: "2070022",
		HomeTeam:   "Canada",
		AwayTeam:   "USA",
		Stage:      models.StageGroup,
		Group:      "B",
		StartTime:  now.Add(2 * time.Hour),
	}
	require.NoError(t, matchRepo.Create(ctx, closed))
	require.NoError(t, matchRepo.Create(ctx, open))

	service := NewPredictionService(predictionRepo, matchRepo, leagueRepo)
	service.now = func() time.Time { return now }

	for _, p := range []*models.Prediction{
		{UserID: bob, MatchID: closed.ID, LeagueID: league.ID, HomeScore: 2, AwayScore: 1, EndingType: models.EndingRegular},
		{UserID: bob, MatchID: open.ID, LeagueID: league.ID, HomeScore: 0, AwayScore: 3, EndingType: models.EndingShootout},
	} {
		require.NoError(t, predictionRepo.Upsert(ctx, p))
	}

	// Alice sees only Bob's locked-in prediction
	visible, err := service.GetMemberPredictions(ctx, alice, bob, league.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, closed.ID, visible[0].MatchID)

	// Bob sees his own open prediction too
	own, err := service.GetMemberPredictions(ctx, bob, bob, league.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	// Non-members get nothing
	_, err = service.GetMemberPredictions(ctx, primitive.NewObjectID(), bob, league.ID)
	assert.ErrorIs(t, err, ErrNotLeagueMember)

	_, err = service.GetMemberPredictions(ctx, alice, bob, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestGetMatchPredictionsRequiresMembership(t *testing.T) {
	start := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	f := newPredictionFixture(t, start.Add(-2*time.Hour), start)

	stranger := primitive.NewObjectID()
	_, err := f.service.GetMatchPredictions(context.Background(), stranger, f.match.ID, f.league.ID)
	assert.ErrorIs(t, err, ErrNotLeagueMember)
}
