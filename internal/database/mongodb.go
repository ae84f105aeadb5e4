package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// Collection names
const (
	// CollectionImageCatalog holds the tagged reference images. Read-only
	// from this service's perspective.
	CollectionImageCatalog = "image_description"

	// CollectionVisionBoards holds the composed vision board documents.
	// Append-only: boards are inserted once and never updated.
	CollectionVisionBoards = "weddingverse_output"
)

// NewMongoDB creates a new MongoDB connection with connection pooling
func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if dbName == "" {
		dbName = extractDBName(uri)
	}
	if dbName == "" {
		dbName = "data"
	}

	db := &MongoDB{
		client:   client,
		database: client.Database(dbName),
		dbName:   dbName,
	}

	log.Printf("✅ Connected to MongoDB database: %s", dbName)

	return db, nil
}

// extractDBName extracts the database name from MongoDB URI
func extractDBName(uri string) string {
	// Find the database name between the last "/" and "?" or end of string:
	// mongodb://localhost:27017/data?authSource=admin -> data
	lastSlash := -1
	questionMark := -1

	for i, c := range uri {
		if c == '/' {
			lastSlash = i
		}
		if c == '?' && questionMark == -1 {
			questionMark = i
		}
	}

	if lastSlash != -1 {
		start := lastSlash + 1
		end := len(uri)
		if questionMark != -1 && questionMark > lastSlash {
			end = questionMark
		}
		if start < end {
			return uri[start:end]
		}
	}

	return ""
}

// Initialize creates indexes for all collections
func (m *MongoDB) Initialize(ctx context.Context) error {
	log.Println("📦 Initializing MongoDB indexes...")

	// Vision board lookups are by reference_id; timestamp supports
	// history listings. reference_id is intended-unique but the index is
	// non-unique to match the stored shape (lookups return a list).
	if err := m.createIndexes(ctx, CollectionVisionBoards, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create vision board indexes: %w", err)
	}

	// The diagnostic criteria lookup fetches catalog documents by link.
	if err := m.createIndexes(ctx, CollectionImageCatalog, []mongo.IndexModel{
		{Keys: bson.D{{Key: "image_link", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create image catalog indexes: %w", err)
	}

	log.Println("✅ MongoDB indexes initialized successfully")
	return nil
}

// createIndexes creates indexes for a collection
func (m *MongoDB) createIndexes(ctx context.Context, collectionName string, indexes []mongo.IndexModel) error {
	collection := m.database.Collection(collectionName)
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Collection returns a collection handle
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// Database returns the underlying MongoDB database
func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

// Close closes the MongoDB connection
func (m *MongoDB) Close(ctx context.Context) error {
	log.Println("🔌 Closing MongoDB connection...")
	return m.client.Disconnect(ctx)
}

// Ping checks if the database connection is alive
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}
