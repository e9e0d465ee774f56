package analytics

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/mongodb"
)

// ErrDuplicate means this (order, campaign) pair was already attributed.
// Webhook redelivery hits this; callers treat it as a no-op.
var ErrDuplicate = errors.New("order already attributed to campaign")

type Store interface {
	Insert(ctx context.Context, rec Record) error
	ListByCampaign(ctx context.Context, companyID string, campaignID int) ([]Record, error)
}

type mongoStore struct {
	client      *mongo.Client
	cfg         *config.Config
	indexed     sync.Map
	createIndex func(ctx context.Context, companyID string) error
}

type StoreParams struct {
	fx.In

	Client *mongo.Client
	Config *config.Config
}

func NewStore(p StoreParams) Store {
	s := &mongoStore{client: p.Client, cfg: p.Config}
	s.createIndex = s.createUniqueIndex
	return s
}

func (s *mongoStore) collection(companyID string) *mongo.Collection {
	return s.client.Database(mongodb.DatabaseName(s.cfg, companyID)).Collection("analytics")
}

func (s *mongoStore) createUniqueIndex(ctx context.Context, companyID string) error {
	_, err := s.collection(companyID).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "orderId", Value: 1},
			{Key: "campaignId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ensureIndexes backs the (orderId, campaignId) dedup guarantee. A company
// is only marked indexed after the create succeeds, so a transient failure
// is retried on the next insert.
func (s *mongoStore) ensureIndexes(ctx context.Context, companyID string) {
	if _, ok := s.indexed.Load(companyID); ok {
		return
	}
	if err := s.createIndex(ctx, companyID); err != nil {
		zap.L().Warn("analytics index create failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return
	}
	s.indexed.Store(companyID, true)
}

func (s *mongoStore) Insert(ctx context.Context, rec Record) error {
	s.ensureIndexes(ctx, rec.CompanyID)

	_, err := s.collection(rec.CompanyID).InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return errutil.Internal("failed to insert analytics record", errutil.WithErr(err))
	}
	return nil
}

func (s *mongoStore) ListByCampaign(ctx context.Context, companyID string, campaignID int) ([]Record, error) {
	cur, err := s.collection(companyID).Find(ctx, bson.M{"campaignId": campaignID})
	if err != nil {
		return nil, errutil.Internal("failed to list analytics", errutil.WithErr(err))
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errutil.Internal("failed to decode analytics", errutil.WithErr(err))
	}
	return out, nil
}
