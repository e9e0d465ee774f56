package shipment

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/mongodb"
)

type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Step records the outcome of one stage of shipment processing. The
// sequence is the audit trail for a delivered webhook.
type Step struct {
	Name   string     `bson:"name" json:"name"`
	Status StepStatus `bson:"status" json:"status"`
	Detail string     `bson:"detail,omitempty" json:"detail,omitempty"`
}

type EventRecord struct {
	ID            string    `bson:"_id" json:"id"`
	EventName     string    `bson:"eventName" json:"eventName"`
	CompanyID     string    `bson:"companyId" json:"companyId"`
	ApplicationID string    `bson:"applicationId" json:"applicationId"`
	OrderID       string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	ShipmentID    string    `bson:"shipmentId,omitempty" json:"shipmentId,omitempty"`
	UserID        string    `bson:"userId,omitempty" json:"userId,omitempty"`
	Steps         []Step    `bson:"steps" json:"steps"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type EventStore interface {
	Insert(ctx context.Context, rec *EventRecord) error
}

type mongoEventStore struct {
	client *mongo.Client
	cfg    *config.Config
}

type EventStoreParams struct {
	fx.In

	Client *mongo.Client
	Config *config.Config
}

func NewEventStore(p EventStoreParams) EventStore {
	return &mongoEventStore{client: p.Client, cfg: p.Config}
}

func (s *mongoEventStore) Insert(ctx context.Context, rec *EventRecord) error {
	col := s.client.Database(mongodb.DatabaseName(s.cfg, rec.CompanyID)).Collection("events")
	if _, err := col.InsertOne(ctx, rec); err != nil {
		return errutil.Internal("failed to insert event record", errutil.WithErr(err))
	}
	return nil
}
