package mongodb

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	leadsCollection      = "leads"
	activitiesCollection = "lead_activities"
	rateLimitCollection  = "ip_rate_limits"
)

// Connect opens the client, pings the primary and makes sure the indexes the
// repositories rely on exist.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(10 * time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Printf("✅ Connected to MongoDB database %s", dbName)
	return client, db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		leadsCollection: {
			{Keys: bson.D{{Key: "stage", Value: 1}, {Key: "lastActivityAt", Value: 1}}},
			{Keys: bson.D{{Key: "agentId", Value: 1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		activitiesCollection: {
			{Keys: bson.D{{Key: "leadId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		rateLimitCollection: {
			{Keys: bson.D{{Key: "ipAddress", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
