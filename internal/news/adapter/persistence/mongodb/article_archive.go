package mongodb

import (
	"context"

	"intelfeed/internal/news/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoArticleArchive stores normalized articles collected by the
// background refresher for later analysis.
type MongoArticleArchive struct {
	articles *mongo.Collection
}

// NewMongoArticleArchive creates a new article archive.
func NewMongoArticleArchive(db *mongo.Database) *MongoArticleArchive {
	archive := &MongoArticleArchive{articles: db.Collection("articles")}
	archive.ensureIndexes(context.Background())
	return archive
}

func (a *MongoArticleArchive) ensureIndexes(ctx context.Context) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "published", Value: -1}}}
	_, _ = a.articles.Indexes().CreateOne(ctx, idx)
}

// Upsert writes each article keyed by its id, replacing earlier copies.
func (a *MongoArticleArchive) Upsert(ctx context.Context, articles []*model.Article) error {
	if len(articles) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(articles))
	for _, art := range articles {
		if art.ID == "" {
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": art.ID}).
			SetReplacement(art).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}

	opts := options.BulkWrite().SetOrdered(false)
	_, err := a.articles.BulkWrite(ctx, models, opts)
	return err
}

// Recent returns the newest archived articles.
func (a *MongoArticleArchive) Recent(ctx context.Context, limit int) ([]*model.Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := a.articles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []*model.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}
