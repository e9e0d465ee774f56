package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/mongodb"
)

// Store persists member documents. There is no deletion path.
type Store interface {
	// Upsert merges the given fields into the user document, creating it
	// when absent. Fields not present in the payload are left untouched.
	Upsert(ctx context.Context, companyID, userID string, fields map[string]any) error
	Get(ctx context.Context, companyID, userID string) (map[string]any, error)
}

type mongoStore struct {
	client *mongo.Client
	cfg    *config.Config
	now    func() time.Time
}

type StoreParams struct {
	fx.In

	Client *mongo.Client
	Config *config.Config
}

func NewStore(p StoreParams) Store {
	return &mongoStore{client: p.Client, cfg: p.Config, now: time.Now}
}

func (s *mongoStore) collection(companyID string) *mongo.Collection {
	return s.client.Database(mongodb.DatabaseName(s.cfg, companyID)).Collection("users")
}

func (s *mongoStore) Upsert(ctx context.Context, companyID, userID string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		if k == "userId" || k == "createdAt" {
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = s.now()

	_, err := s.collection(companyID).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"userId": userID, "createdAt": s.now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errutil.Internal("failed to upsert user", errutil.WithErr(err))
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, companyID, userID string) (map[string]any, error) {
	var doc map[string]any
	err := s.collection(companyID).FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errutil.Internal("failed to load user", errutil.WithErr(err))
	}
	return doc, nil
}
