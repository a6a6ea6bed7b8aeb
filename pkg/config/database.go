package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB is the storage handle constructed once at process start and passed
// down to the components that need it.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// InitDB connects to MongoDB with bounded connect and command timeouts, so
// an unreachable store surfaces as an error instead of a hang.
func InitDB(cfg *Config) (*DB, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetTimeout(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return &DB{
		Client:   client,
		Database: client.Database(cfg.MongoDatabase),
	}, nil
}

// CloseDB disconnects from MongoDB.
func (db *DB) CloseDB() {
	if db.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Client.Disconnect(ctx); err != nil {
		log.Printf("Error closing MongoDB connection: %v\n", err)
	} else {
		log.Println("MongoDB connection closed.")
	}
}
