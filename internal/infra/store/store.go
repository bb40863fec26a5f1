// Package store selects the backend for the pipeline documents (leads,
// activities and rate-limit counters). Users, OTPs, provider tokens and
// subscribers always live in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/config"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/database"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/memory"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/mongodb"
)

type Pipeline struct {
	Leads      entity.LeadRepository
	Activities entity.ActivityRepository
	RateLimits entity.RateLimitRepository

	// Mongo is set only for the mongo backend.
	Mongo *mongo.Client
}

func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (*Pipeline, error) {
	switch cfg.LeadStore {
	case config.StorePostgres:
		return &Pipeline{
			Leads:      database.NewLeadRepository(db),
			Activities: database.NewActivityRepository(db),
			RateLimits: database.NewRateLimitRepository(db),
		}, nil

	case config.StoreMongo:
		client, mdb, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &Pipeline{
			Leads:      mongodb.NewLeadRepository(mdb),
			Activities: mongodb.NewActivityRepository(mdb),
			RateLimits: mongodb.NewRateLimitRepository(mdb),
			Mongo:      client,
		}, nil

	case config.StoreMemory:
		log.Println("⚠️ LEAD_STORE=memory: leads and rate limits are not shared between instances")
		return &Pipeline{
			Leads:      memory.NewLeadRepository(),
			Activities: memory.NewActivityRepository(),
			RateLimits: memory.NewRateLimitRepository(),
		}, nil
	}
	return nil, fmt.Errorf("unknown lead store %q", cfg.LeadStore)
}

func (p *Pipeline) Close(ctx context.Context) error {
	if p.Mongo == nil {
		return nil
	}
	return p.Mongo.Disconnect(ctx)
}
