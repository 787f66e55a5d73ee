package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// MongoLeagueRepository persists leagues and their member standings
type MongoLeagueRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoLeagueRepository creates the repository and its indexes
func NewMongoLeagueRepository(db *MongoDB) *MongoLeagueRepository {
	collection := db.GetCollection("leagues")
	logger := logging.WithPrefix("LeagueRepo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "members.userId", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warnf("Could not create league indexes: %v", err)
	}

	return &MongoLeagueRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create inserts a new league. A duplicate name returns an error from the
// unique index.
func (r *MongoLeagueRepository) Create(ctx context.Context, league *models.League) error {
	result, err := r.collection.InsertOne(ctx, league)
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		league.ID = oid
	}
	return nil
}

// FindByID retrieves a league by id, or nil if not found
func (r *MongoLeagueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.League, error) {
	var league models.League
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&league)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find league by ID: %w", err)
	}
	return &league, nil
}

// FindByName retrieves a league by its unique name, or nil if not found
func (r *MongoLeagueRepository) FindByName(ctx context.Context, name string) (*models.League, error) {
	var league models.League
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&league)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find league by name: %w", err)
	}
	return &league, nil
}

// FindByMember returns every league the user belongs to
func (r *MongoLeagueRepository) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]*models.League, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"members.userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find leagues by member: %w", err)
	}
	defer cursor.Close(ctx)

	var leagues []*models.League
	for cursor.Next(ctx) {
		var league models.League
		if err := cursor.Decode(&league); err != nil {
			return nil, fmt.Errorf("failed to decode league: %w", err)
		}
		leagues = append(leagues, &league)
	}

	return leagues, cursor.Err()
}

// Update replaces the league's mutable settings
func (r *MongoLeagueRepository) Update(ctx context.Context, league *models.League) error {
	update := bson.M{
		"$set": bson.M{
			"name":         league.Name,
			"password":     league.Password,
			"scoringRules": league.ScoringRules,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": league.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update league: %w", err)
	}
	return nil
}

// AddMember appends a member entry, guarded against the user already being
// in the list so a double join cannot produce two entries.
func (r *MongoLeagueRepository) AddMember(ctx context.Context, leagueID primitive.ObjectID, member models.LeagueMember) (bool, error) {
	filter := bson.M{
		"_id":            leagueID,
		"members.userId": bson.M{"$ne": member.UserID},
	}
	update := bson.M{
		"$push": bson.M{"members": member},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add league member: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember removes a user's membership entry
func (r *MongoLeagueRepository) RemoveMember(ctx context.Context, leagueID, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"userId": userID}},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": leagueID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove league member: %w", err)
	}
	return nil
}

// UpdateMemberDisplayName changes how a member appears inside one league.
// Returns false when the user is not on the league's roster.
func (r *MongoLeagueRepository) UpdateMemberDisplayName(ctx context.Context, leagueID, userID primitive.ObjectID, displayName string) (bool, error) {
	filter := bson.M{
		"_id":            leagueID,
		"members.userId": userID,
	}
	update := bson.M{
		"$set": bson.M{"members.$.displayName": displayName},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update member display name: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// AddMemberPoints atomically increments a member's running total. Returns
// false when the (league, member) pair does not exist, which callers report
// as a consistency warning rather than an error.
func (r *MongoLeagueRepository) AddMemberPoints(ctx context.Context, leagueID, userID primitive.ObjectID, delta int) (bool, error) {
	filter := bson.M{
		"_id":            leagueID,
		"members.userId": userID,
	}
	update := bson.M{
		"$inc": bson.M{"members.$.totalPoints": delta},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add member points: %w", err)
	}
	return res.MatchedCount > 0, nil
}
