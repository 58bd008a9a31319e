/* mongo.go
 * Contains the MongoDB backed key-value client. Each key is one document in the kv collection, with the key as _id.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// kvDoc is the layout of a key-value pair in the kv collection
type kvDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoKV struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

var _ KV = (*MongoKV)(nil)

// NewMongoKV connects to MongoDB and uses the kv collection of dbName
// Preconditions: Receives the mongo uri and the database name
// Postconditions: Returns the client, or an error if the server cannot be reached
func NewMongoKV(ctx context.Context, mongoURI string, dbName string) (*MongoKV, error) {
	if mongoURI == "" || dbName == "" {
		return nil, fmt.Errorf("mongo uri and database name cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	return &MongoKV{
		Client:     client,
		Collection: client.Database(dbName).Collection("kv"),
	}, nil
}

func (m *MongoKV) Get(ctx context.Context, key string) (string, error) {
	var doc kvDoc
	err := m.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch %s from database: %w", key, err)
	}
	return doc.Value, nil
}

// Set replaces the document for key, inserting it if it does not exist
func (m *MongoKV) Set(ctx context.Context, key, value string) error {
	doc := kvDoc{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)

	_, err := m.Collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to store %s in database: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Close() error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(context.Background())
}
