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

// MongoUserRepository persists user accounts
type MongoUserRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoUserRepository creates the repository and its indexes
func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	collection := db.GetCollection("users")
	logger := logging.WithPrefix("UserRepo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warnf("Could not create user indexes: %v", err)
	}

	return &MongoUserRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create inserts a new user. A duplicate email returns an error from the
// unique index.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByID retrieves a user by id, or nil if not found
func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email, or nil if not found
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// FindAll returns every user account
func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &user)
	}

	return users, cursor.Err()
}

// Update writes the account's mutable profile fields
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	update := bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"password":  user.Password,
			"updatedAt": user.UpdatedAt,
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetAdmin grants or revokes admin rights
func (r *MongoUserRepository) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	update := bson.M{
		"$set": bson.M{
			"isAdmin":   isAdmin,
			"updatedAt": time.Now(),
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
