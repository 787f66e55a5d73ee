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

// MongoMatchRepository persists tournament matches
type MongoMatchRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoMatchRepository creates the repository and its indexes
func NewMongoMatchRepository(db *MongoDB) *MongoMatchRepository {
	collection := db.GetCollection("matches")
	logger := logging.WithPrefix("MatchRepo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "matchId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "startTime", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "stage", Value: 1}, {Key: "group", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warnf("Could not create match indexes: %v", err)
	}

	return &MongoMatchRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create inserts a new match. A duplicate external id returns an error from
// the unique index.
func (r *MongoMatchRepository) Create(ctx context.Context, match *models.Match) error {
	result, err := r.collection.InsertOne(ctx, match)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		match.ID = oid
	}
	return nil
}

// FindByID retrieves a match by its document id, or nil if not found
func (r *MongoMatchRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	var match models.Match
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find match by ID: %w", err)
	}
	return &match, nil
}

// FindByExternalID retrieves a match by the feed's fixture id, or nil
func (r *MongoMatchRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Match, error) {
	var match models.Match
	err := r.collection.FindOne(ctx, bson.M{"matchId": externalID}).Decode(&match)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find match by external ID: %w", err)
	}
	return &match, nil
}

// FindAll returns every match ordered by start time
func (r *MongoMatchRepository) FindAll(ctx context.Context) ([]*models.Match, error) {
	return r.find(ctx, bson.M{})
}

// FindByStage returns matches for a tournament stage ordered by start time
func (r *MongoMatchRepository) FindByStage(ctx context.Context, stage models.Stage) ([]*models.Match, error) {
	return r.find(ctx, bson.M{"stage": stage})
}

// FindByGroup returns group-stage matches for a group label ordered by start time
func (r *MongoMatchRepository) FindByGroup(ctx context.Context, group string) ([]*models.Match, error) {
	return r.find(ctx, bson.M{"stage": models.StageGroup, "group": group})
}

// FindFinished returns every match with an authoritative result
func (r *MongoMatchRepository) FindFinished(ctx context.Context) ([]*models.Match, error) {
	return r.find(ctx, bson.M{"result.finished": true})
}

func (r *MongoMatchRepository) find(ctx context.Context, filter bson.M) ([]*models.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []*models.Match
	for cursor.Next(ctx) {
		var match models.Match
		if err := cursor.Decode(&match); err != nil {
			return nil, fmt.Errorf("failed to decode match: %w", err)
		}
		matches = append(matches, &match)
	}

	return matches, cursor.Err()
}

// SetSyncedResult writes a feed-sourced result, but only when the match has
// never been manually overridden. Returns true when the write was applied.
func (r *MongoMatchRepository) SetSyncedResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, syncedAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":             id,
		"manuallyUpdated": bson.M{"$ne": true},
	}
	update := bson.M{
		"$set": bson.M{
			"result":       result,
			"apiUpdatedAt": syncedAt,
		},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set synced result: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SetManualResult writes an admin-entered result and marks the match as
// manually overridden, which permanently disables feed updates for it.
func (r *MongoMatchRepository) SetManualResult(ctx context.Context, id primitive.ObjectID, result models.MatchResult, adminID primitive.ObjectID, updatedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"result":            result,
			"manuallyUpdated":   true,
			"manuallyUpdatedAt": updatedAt,
			"manuallyUpdatedBy": adminID,
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set manual result: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
