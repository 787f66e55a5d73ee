package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hockey-pool-go/models"
)

func TestCreateLeagueSetsDefaults(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	league, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	assert.Equal(t, models.DefaultScoringRules(), league.ScoringRules)
	assert.Equal(t, creator, league.CreatedBy)
	require.Len(t, league.Members, 1)
	assert.Equal(t, creator, league.Members[0].UserID)
	assert.Equal(t, "Erik", league.Members[0].DisplayName)
	assert.Equal(t, 0, league.Members[0].TotalPoints)
}

func TestCreateLeagueRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())

	_, err := service.CreateLeague(ctx, primitive.NewObjectID(), "Grupp 8", "a", "Erik")
	require.NoError(t, err)

	_, err = service.CreateLeague(ctx, primitive.NewObjectID(), "Grupp 8", "b", "Anna")
	assert.ErrorIs(t, err, ErrLeagueNameTaken)
}

func TestCreateLeagueValidation(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	_, err := service.CreateLeague(ctx, creator, "", "pw", "Erik")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.CreateLeague(ctx, creator, "Grupp 8", "", "Erik")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.CreateLeague(ctx, creator, "Grupp 8", "pw", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinLeague(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()
	joiner := primitive.NewObjectID()

	_, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	league, err := service.JoinLeague(ctx, joiner, "Grupp 8", "hemligt", "Anna")
	require.NoError(t, err)
	assert.Len(t, league.Members, 2)
	assert.True(t, league.HasMember(joiner))
}

func TestJoinLeagueWrongPassword(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())

	_, err := service.CreateLeague(ctx, primitive.NewObjectID(), "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	_, err = service.JoinLeague(ctx, primitive.NewObjectID(), "Grupp 8", "fel", "Anna")
	assert.ErrorIs(t, err, ErrLeaguePasswordMismatch)
}

func TestJoinLeagueTwice(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	joiner := primitive.NewObjectID()

	_, err := service.CreateLeague(ctx, primitive.NewObjectID(), "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	_, err = service.JoinLeague(ctx, joiner, "Grupp 8", "hemligt", "Anna")
	require.NoError(t, err)

	_, err = service.JoinLeague(ctx, joiner, "Grupp 8", "hemligt", "Anna")
	assert.ErrorIs(t, err, ErrAlreadyLeagueMember)
}

func TestJoinUnknownLeague(t *testing.T) {
	service := NewLeagueService(newFakeLeagueRepo())
	_, err := service.JoinLeague(context.Background(), primitive.NewObjectID(), "Okänd", "pw", "Anna")
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestGetLeagueMemberOnly(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	created, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	_, err = service.GetLeague(ctx, creator, created.ID)
	assert.NoError(t, err)

	_, err = service.GetLeague(ctx, primitive.NewObjectID(), created.ID)
	assert.ErrorIs(t, err, ErrNotLeagueMember)
}

func TestUpdateLeagueCreatorOnly(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	created, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	newRules := models.ScoringRules{ExactScore: 10, CorrectWinner: 5}
	updated, err := service.UpdateLeague(ctx, creator, created.ID, "", "", &newRules)
	require.NoError(t, err)
	assert.Equal(t, newRules, updated.ScoringRules)

	_, err = service.UpdateLeague(ctx, primitive.NewObjectID(), created.ID, "Annat", "", nil)
	assert.ErrorIs(t, err, ErrNotLeagueCreator)
}

func TestUpdateLeagueRejectsNegativeRules(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	created, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	bad := models.ScoringRules{ExactScore: -1}
	_, err = service.UpdateLeague(ctx, creator, created.ID, "", "", &bad)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	service := NewLeagueService(newFakeLeagueRepo())
	creator := primitive.NewObjectID()

	created, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)

	league, err := service.UpdateDisplayName(ctx, creator, created.ID, "Kapten Erik")
	require.NoError(t, err)
	assert.Equal(t, "Kapten Erik", league.MemberByUserID(creator).DisplayName)

	_, err = service.UpdateDisplayName(ctx, creator, created.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.UpdateDisplayName(ctx, primitive.NewObjectID(), created.ID, "Intruder")
	assert.ErrorIs(t, err, ErrNotLeagueMember)

	_, err = service.UpdateDisplayName(ctx, creator, primitive.NewObjectID(), "Kapten Erik")
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestRemoveMemberCreatorOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeagueRepo()
	service := NewLeagueService(repo)
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()

	created, err := service.CreateLeague(ctx, creator, "Grupp 8", "hemligt", "Erik")
	require.NoError(t, err)
	_, err = service.JoinLeague(ctx, member, "Grupp 8", "hemligt", "Anna")
	require.NoError(t, err)

	err = service.RemoveMember(ctx, member, created.ID, creator)
	assert.ErrorIs(t, err, ErrNotLeagueCreator)

	require.NoError(t, service.RemoveMember(ctx, creator, created.ID, member))

	league, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, league.HasMember(member))
}
