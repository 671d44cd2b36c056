package mongodb

import (
	"context"

	"intelfeed/internal/news/domain/model"
	apperrors "intelfeed/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeedSourceRepository persists the feed registry.
type MongoFeedSourceRepository struct {
	feeds *mongo.Collection
}

// NewMongoFeedSourceRepository creates a new feed registry repository.
func NewMongoFeedSourceRepository(db *mongo.Database) *MongoFeedSourceRepository {
	return &MongoFeedSourceRepository{feeds: db.Collection("feed_sources")}
}

// Seed inserts the given feeds if the registry is empty.
func (r *MongoFeedSourceRepository) Seed(ctx context.Context, feeds []*model.FeedSource) error {
	count, err := r.feeds.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(feeds))
	for _, f := range feeds {
		docs = append(docs, f)
	}
	if len(docs) == 0 {
		return nil
	}
	_, err = r.feeds.InsertMany(ctx, docs)
	// Racing seeds are harmless, the registry is keyed by name.
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// List returns all registered feeds ordered by name.
func (r *MongoFeedSourceRepository) List(ctx context.Context) ([]*model.FeedSource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.feeds.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feeds []*model.FeedSource
	if err := cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// GetByName returns a single registered feed.
func (r *MongoFeedSourceRepository) GetByName(ctx context.Context, name string) (*model.FeedSource, error) {
	var feed model.FeedSource
	err := r.feeds.FindOne(ctx, bson.M{"_id": name}).Decode(&feed)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrFeedNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// Create registers a new feed.
func (r *MongoFeedSourceRepository) Create(ctx context.Context, feed *model.FeedSource) error {
	_, err := r.feeds.InsertOne(ctx, feed)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrFeedExists
	}
	return err
}

// Delete removes a feed from the registry.
func (r *MongoFeedSourceRepository) Delete(ctx context.Context, name string) error {
	res, err := r.feeds.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrFeedNotFound
	}
	return nil
}
