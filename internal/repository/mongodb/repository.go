package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollection = "sessions"

// sessionDocument is the single-slot session record.
type sessionDocument struct {
	Key       string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionRepository persists the session token in MongoDB.
type SessionRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	key      string
}

// NewSessionRepository connects to MongoDB and returns a repository storing the token under key.
func NewSessionRepository(ctx context.Context, uri, dbName, key string) (*SessionRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SessionRepository{
		client:   client,
		dbName:   dbName,
		collName: sessionsCollection,
		key:      key,
	}, nil
}

func (r *SessionRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Load returns the stored token or "" when no session document exists.
func (r *SessionRepository) Load(ctx context.Context) (string, error) {
	var doc sessionDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return doc.Token, nil
}

// Save upserts the session document.
func (r *SessionRepository) Save(ctx context.Context, token string) error {
	doc := sessionDocument{Key: r.key, Token: token, UpdatedAt: time.Now().UTC()}
	_, err := r.collection().ReplaceOne(ctx, bson.M{"_id": r.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session document.
func (r *SessionRepository) Delete(ctx context.Context) error {
	if _, err := r.collection().DeleteOne(ctx, bson.M{"_id": r.key}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *SessionRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
