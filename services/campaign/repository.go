package campaign

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/mongodb"
)

// ErrDuplicateCampaignID signals a collision on the generated 6-digit
// campaign identifier; the service regenerates and retries.
var ErrDuplicateCampaignID = errors.New("campaign id already exists")

// Store is the campaign persistence contract.
type Store interface {
	Insert(ctx context.Context, c *Campaign) error
	List(ctx context.Context, companyID string) ([]Campaign, error)
	ActiveForApplication(ctx context.Context, companyID, applicationID string, now time.Time) ([]Campaign, error)
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
	return s.client.Database(mongodb.DatabaseName(s.cfg, companyID)).Collection("campaigns")
}

func (s *mongoStore) createUniqueIndex(ctx context.Context, companyID string) error {
	_, err := s.collection(companyID).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "campaignId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ensureIndexes backs campaign ID uniqueness. A company is only marked
// indexed after the create succeeds, so a transient failure is retried on
// the next insert.
func (s *mongoStore) ensureIndexes(ctx context.Context, companyID string) {
	if _, ok := s.indexed.Load(companyID); ok {
		return
	}
	if err := s.createIndex(ctx, companyID); err != nil {
		zap.L().Warn("campaign index create failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return
	}
	s.indexed.Store(companyID, true)
}

func (s *mongoStore) Insert(ctx context.Context, c *Campaign) error {
	s.ensureIndexes(ctx, c.CompanyID)

	_, err := s.collection(c.CompanyID).InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCampaignID
	}
	if err != nil {
		return errutil.Internal("failed to insert campaign", errutil.WithErr(err))
	}
	return nil
}

func (s *mongoStore) List(ctx context.Context, companyID string) ([]Campaign, error) {
	cur, err := s.collection(companyID).Find(ctx,
		bson.M{"companyId": companyID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to list campaigns", errutil.WithErr(err))
	}
	defer cur.Close(ctx)

	var out []Campaign
	if err := cur.All(ctx, &out); err != nil {
		return nil, errutil.Internal("failed to decode campaigns", errutil.WithErr(err))
	}
	return out, nil
}

func (s *mongoStore) ActiveForApplication(ctx context.Context, companyID, applicationID string, now time.Time) ([]Campaign, error) {
	cur, err := s.collection(companyID).Find(ctx, bson.M{
		"companyId":      companyID,
		"applicationIds": applicationID,
		"startDate":      bson.M{"$lte": now},
		"endDate":        bson.M{"$gt": now},
	})
	if err != nil {
		return nil, errutil.Internal("failed to query active campaigns", errutil.WithErr(err))
	}
	defer cur.Close(ctx)

	var out []Campaign
	if err := cur.All(ctx, &out); err != nil {
		return nil, errutil.Internal("failed to decode campaigns", errutil.WithErr(err))
	}
	return out, nil
}
