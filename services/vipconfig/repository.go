package vipconfig

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/mongodb"
)

// Store is the VIP config persistence contract. Get returns (nil, nil)
// when no config exists for the company yet.
type Store interface {
	Get(ctx context.Context, companyID string) (*VipConfig, error)
	Save(ctx context.Context, cfg *VipConfig) error
}

type mongoStore struct {
	client *mongo.Client
	cfg    *config.Config
}

type StoreParams struct {
	fx.In

	Client *mongo.Client
	Config *config.Config
}

func NewStore(p StoreParams) Store {
	return &mongoStore{client: p.Client, cfg: p.Config}
}

func (s *mongoStore) collection(companyID string) *mongo.Collection {
	return s.client.Database(mongodb.DatabaseName(s.cfg, companyID)).Collection("vip_configs")
}

func (s *mongoStore) Get(ctx context.Context, companyID string) (*VipConfig, error) {
	var doc VipConfig
	err := s.collection(companyID).FindOne(ctx, bson.M{"companyId": companyID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errutil.Internal("failed to load vip config", errutil.WithErr(err))
	}
	return &doc, nil
}

func (s *mongoStore) Save(ctx context.Context, cfg *VipConfig) error {
	_, err := s.collection(cfg.CompanyID).ReplaceOne(ctx,
		bson.M{"companyId": cfg.CompanyID},
		cfg,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errutil.Internal("failed to save vip config", errutil.WithErr(err))
	}
	return nil
}
