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

type LeadRepository struct {
	coll *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(leadsCollection)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if _, err := r.coll.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return normalize(&lead), nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	q := bson.M{}
	if filter.Stage != "" {
		q["stage"] = filter.Stage
	}
	if filter.AgentID != "" {
		q["agentId"] = filter.AgentID
	}
	if filter.Email != "" {
		q["email"] = filter.Email
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	leads := []*entity.Lead{}
	if err := cur.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	for _, l := range leads {
		normalize(l)
	}
	return leads, nil
}

// UpdateStage filters on the expected stage so the write is atomic per document.
func (r *LeadRepository) UpdateStage(ctx context.Context, id string, from, to entity.Stage, previous *entity.Stage, now time.Time) (bool, error) {
	update := bson.M{"$set": bson.M{"stage": to, "lastActivityAt": now, "updatedAt": now}}
	if previous != nil {
		update["$set"].(bson.M)["previousStage"] = *previous
	} else {
		update["$unset"] = bson.M{"previousStage": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "stage": from}, update)
	if err != nil {
		return false, fmt.Errorf("update stage: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := r.exists(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *LeadRepository) AssignAgent(ctx context.Context, id, agentID string, now time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"agentId": agentID, "lastActivityAt": now, "updatedAt": now}})
}

func (r *LeadRepository) UpdateDetails(ctx context.Context, l *entity.Lead, now time.Time) error {
	return r.updateOne(ctx, l.ID, bson.M{"$set": bson.M{
		"travelDate":     l.TravelDate,
		"durationDays":   l.DurationDays,
		"budget":         l.Budget,
		"netAmount":      l.NetAmount,
		"tripProfit":     l.TripProfit,
		"paymentStatus":  l.PaymentStatus,
		"itineraryUrl":   l.ItineraryURL,
		"documents":      l.Documents,
		"notes":          l.Notes,
		"lastActivityAt": now,
		"updatedAt":      now,
	}})
}

func (r *LeadRepository) Touch(ctx context.Context, id string, now time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"lastActivityAt": now, "updatedAt": now}})
}

// MarkStale reads the idle candidates, then flips each one with a guarded
// update so a lead touched in between is skipped.
func (r *LeadRepository) MarkStale(ctx context.Context, cutoff, now time.Time) ([]entity.StaleCandidate, error) {
	idle := bson.M{
		"stage":          bson.M{"$nin": []entity.Stage{entity.StageWon, entity.StageLost, entity.StageStale}},
		"lastActivityAt": bson.M{"$lt": cutoff},
	}
	cur, err := r.coll.Find(ctx, idle, options.Find().SetProjection(bson.M{"_id": 1, "stage": 1, "lastActivityAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("find idle leads: %w", err)
	}
	var candidates []struct {
		ID             string       `bson:"_id"`
		Stage          entity.Stage `bson:"stage"`
		LastActivityAt time.Time    `bson:"lastActivityAt"`
	}
	if err := cur.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("decode idle leads: %w", err)
	}

	var moved []entity.StaleCandidate
	for _, c := range candidates {
		guard := bson.M{"_id": c.ID, "stage": c.Stage, "lastActivityAt": bson.M{"$lt": cutoff}}
		update := bson.M{"$set": bson.M{"stage": entity.StageStale, "previousStage": c.Stage, "updatedAt": now}}
		res, err := r.coll.UpdateOne(ctx, guard, update)
		if err != nil {
			return moved, fmt.Errorf("mark lead %s stale: %w", c.ID, err)
		}
		if res.ModifiedCount == 1 {
			moved = append(moved, entity.StaleCandidate{LeadID: c.ID, PreviousStage: c.Stage, LastActivityAt: c.LastActivityAt})
		}
	}
	return moved, nil
}

func (r *LeadRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) exists(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count lead: %w", err)
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func normalize(l *entity.Lead) *entity.Lead {
	if l.Travelers == nil {
		l.Travelers = []entity.Traveler{}
	}
	if l.Documents == nil {
		l.Documents = []string{}
	}
	return l
}
