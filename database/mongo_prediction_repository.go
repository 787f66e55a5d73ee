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

// MongoPredictionRepository persists user predictions
type MongoPredictionRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoPredictionRepository creates the repository and its indexes. The
// compound unique index is what upholds the one-prediction-per-
// (user, match, league) invariant under concurrent submissions.
func NewMongoPredictionRepository(db *MongoDB) *MongoPredictionRepository {
	collection := db.GetCollection("predictions")
	logger := logging.WithPrefix("PredictionRepo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "match_id", Value: 1},
				{Key: "league_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "match_id", Value: 1},
				{Key: "evaluated", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "league_id", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warnf("Could not create prediction indexes: %v", err)
	}

	return &MongoPredictionRepository{
		collection: collection,
		logger:     logger,
	}
}

// Upsert creates or overwrites the prediction for the (user, match, league)
// triple as a single logical operation. Predicted fields and the update
// timestamp are always written; creation-time fields only on insert.
func (r *MongoPredictionRepository) Upsert(ctx context.Context, p *models.Prediction) error {
	filter := bson.M{
		"user_id":   p.UserID,
		"match_id":  p.MatchID,
		"league_id": p.LeagueID,
	}
	update := bson.M{
		"$set": bson.M{
			"homeScore":  p.HomeScore,
			"awayScore":  p.AwayScore,
			"endingType": p.EndingType,
			"updated_at": p.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"user_id":    p.UserID,
			"match_id":   p.MatchID,
			"league_id":  p.LeagueID,
			"created_at": p.CreatedAt,
			"evaluated":  false,
			"points":     0,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

// FindByTriple retrieves the prediction for a (user, match, league) triple, or nil
func (r *MongoPredictionRepository) FindByTriple(ctx context.Context, userID, matchID, leagueID primitive.ObjectID) (*models.Prediction, error) {
	filter := bson.M{
		"user_id":   userID,
		"match_id":  matchID,
		"league_id": leagueID,
	}

	var prediction models.Prediction
	err := r.collection.FindOne(ctx, filter).Decode(&prediction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prediction: %w", err)
	}
	return &prediction, nil
}

// FindUnevaluatedByMatch returns predictions for a match that have not been
// scored yet.
func (r *MongoPredictionRepository) FindUnevaluatedByMatch(ctx context.Context, matchID primitive.ObjectID) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{"match_id": matchID, "evaluated": false})
}

// FindByUserAndLeague returns all of a user's predictions within a league
func (r *MongoPredictionRepository) FindByUserAndLeague(ctx context.Context, userID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{"user_id": userID, "league_id": leagueID})
}

// FindByMatchAndLeague returns every prediction for a match within a league
func (r *MongoPredictionRepository) FindByMatchAndLeague(ctx context.Context, matchID, leagueID primitive.ObjectID) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{"match_id": matchID, "league_id": leagueID})
}

func (r *MongoPredictionRepository) find(ctx context.Context, filter bson.M) ([]*models.Prediction, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find predictions: %w", err)
	}
	defer cursor.Close(ctx)

	var predictions []*models.Prediction
	for cursor.Next(ctx) {
		var prediction models.Prediction
		if err := cursor.Decode(&prediction); err != nil {
			return nil, fmt.Errorf("failed to decode prediction: %w", err)
		}
		predictions = append(predictions, &prediction)
	}

	return predictions, cursor.Err()
}

// MarkEvaluated writes the evaluation result onto a prediction with a
// compare-and-set on the evaluated flag. Returns true only for the pass
// that actually flipped the flag; concurrent or repeated passes see false
// and must not re-apply the point delta.
func (r *MongoPredictionRepository) MarkEvaluated(ctx context.Context, id primitive.ObjectID, points int, details models.EvaluationDetails) (bool, error) {
	filter := bson.M{
		"_id":       id,
		"evaluated": false,
	}
	update := bson.M{
		"$set": bson.M{
			"evaluated":         true,
			"points":            points,
			"evaluationDetails": details,
		},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark prediction evaluated: %w", err)
	}
	return res.ModifiedCount > 0, nil
}
