package mongodb

import (
	"context"
	"time"

	"intelfeed/internal/auth/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements AuthRepository using MongoDB
type MongoAuthRepository struct {
	db        *mongo.Database
	users     *mongo.Collection
	sessions  *mongo.Collection
	bootstrap *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository
func NewMongoAuthRepository(db *mongo.Database) *MongoAuthRepository {
	repo := &MongoAuthRepository{
		db:        db,
		users:     db.Collection("users"),
		sessions:  db.Collection("sessions"),
		bootstrap: db.Collection("auth_bootstrap"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *MongoAuthRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	emailIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	sessionExpiryIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	sessionTokenIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}},
	}

	// Index creation failures are non-fatal; duplicate-key enforcement
	// still happens in CreateUser.
	_, _ = r.users.Indexes().CreateOne(ctx, emailIdx)
	_, _ = r.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{sessionExpiryIdx, sessionTokenIdx})
}

// CreateUser creates a new user
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ObjectID.IsZero() {
		user.ObjectID = primitive.NewObjectID()
	}
	if user.ID == "" {
		user.ID = user.ObjectID.Hex()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrUserExists
	}
	return err
}

// GetUserByEmail retrieves a user by email
func (r *MongoAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (r *MongoAuthRepository) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.users.ReplaceOne(ctx, bson.M{"id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user and their sessions
func (r *MongoAuthRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrUserNotFound
	}
	_, _ = r.sessions.DeleteMany(ctx, bson.M{"user_id": id})
	return nil
}

// ListUsers returns all users ordered by creation time
func (r *MongoAuthRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ClaimAdminBootstrap upserts the singleton bootstrap marker. The upsert
// on a fixed _id is atomic on the server, so exactly one caller observes
// UpsertedCount == 1 and wins the admin role.
func (r *MongoAuthRepository) ClaimAdminBootstrap(ctx context.Context) (bool, error) {
	res, err := r.bootstrap.UpdateOne(ctx,
		bson.M{"_id": "admin"},
		bson.M{"$setOnInsert": bson.M{"claimed_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// A concurrent upsert can surface as a duplicate key error; the
		// marker exists either way, so the claim is lost.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// CreateSession stores a new session
func (r *MongoAuthRepository) CreateSession(ctx context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	_, err := r.sessions.InsertOne(ctx, session)
	return err
}

// GetSessionByToken retrieves a session by its token
func (r *MongoAuthRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.sessions.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteUserSessions removes all sessions for a user
func (r *MongoAuthRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := r.sessions.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
