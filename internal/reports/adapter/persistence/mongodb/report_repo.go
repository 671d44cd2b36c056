package mongodb

import (
	"context"

	"intelfeed/internal/reports/domain/model"
	apperrors "intelfeed/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReportRepository persists report records.
type MongoReportRepository struct {
	reports *mongo.Collection
}

// NewMongoReportRepository creates a new report repository.
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	repo := &MongoReportRepository{reports: db.Collection("reports")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *MongoReportRepository) ensureIndexes(ctx context.Context) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}
	_, _ = r.reports.Indexes().CreateOne(ctx, idx)
}

// Create inserts a new report record.
func (r *MongoReportRepository) Create(ctx context.Context, report *model.Report) error {
	_, err := r.reports.InsertOne(ctx, report)
	return err
}

// Get returns the report with the given id.
func (r *MongoReportRepository) Get(ctx context.Context, reportID string) (*model.Report, error) {
	var report model.Report
	err := r.reports.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update replaces the stored report record.
func (r *MongoReportRepository) Update(ctx context.Context, report *model.Report) error {
	res, err := r.reports.ReplaceOne(ctx, bson.M{"_id": report.ID}, report)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrReportNotFound
	}
	return nil
}

// List returns the newest reports.
func (r *MongoReportRepository) List(ctx context.Context, limit int) ([]*model.Report, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
