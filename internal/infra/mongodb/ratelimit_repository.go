package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// RateLimitRepository relies on the unique ipAddress index: every write is a
// single-document conditional update.
type RateLimitRepository struct {
	coll *mongo.Collection
}

func NewRateLimitRepository(db *mongo.Database) *RateLimitRepository {
	return &RateLimitRepository{coll: db.Collection(rateLimitCollection)}
}

func notBlocked(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"blockedUntil": nil},
		bson.M{"blockedUntil": bson.M{"$lte": now}},
	}}
}

func (r *RateLimitRepository) Get(ctx context.Context, ip string) (*entity.IPRateLimit, error) {
	var rec entity.IPRateLimit
	err := r.coll.FindOne(ctx, bson.M{"ipAddress": ip}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rate limit: %w", err)
	}
	return &rec, nil
}

func (r *RateLimitRepository) Increment(ctx context.Context, ip string, windowCutoff, now time.Time, max int) (int, bool, error) {
	filter := bson.M{
		"ipAddress":   ip,
		"windowStart": bson.M{"$gt": windowCutoff},
		"leadCount":   bson.M{"$lt": max},
	}
	for k, v := range notBlocked(now) {
		filter[k] = v
	}

	var rec entity.IPRateLimit
	err := r.coll.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"leadCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment rate limit: %w", err)
	}
	return rec.LeadCount, true, nil
}

func (r *RateLimitRepository) Block(ctx context.Context, ip string, until time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"ipAddress": ip}, bson.M{"$set": bson.M{"blockedUntil": until}})
	if err != nil {
		return fmt.Errorf("block ip: %w", err)
	}
	return nil
}

// StartWindow upserts on an expired, unblocked window. When the document
// exists but does not match, the upsert collides with the unique index and
// the caller lost the race.
func (r *RateLimitRepository) StartWindow(ctx context.Context, ip string, windowCutoff, now time.Time) (bool, error) {
	filter := bson.M{
		"ipAddress":   ip,
		"windowStart": bson.M{"$lte": windowCutoff},
	}
	for k, v := range notBlocked(now) {
		filter[k] = v
	}
	update := bson.M{
		"$set":   bson.M{"leadCount": 1, "windowStart": now},
		"$unset": bson.M{"blockedUntil": ""},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("start rate limit window: %w", err)
	}
	return res.MatchedCount+res.UpsertedCount == 1, nil
}
