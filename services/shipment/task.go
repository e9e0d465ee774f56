package shipment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/taskname"
)

type ProcessShipmentPayload struct {
	EventName     string      `json:"event_name"`
	CompanyID     string      `json:"company_id"`
	ApplicationID string      `json:"application_id"`
	Body          WebhookBody `json:"body"`
}

type Task struct {
	svc    *Service
	client *asynq.Client
	cfg    *config.Config
}

type TaskParams struct {
	fx.In

	Service *Service
	Asynq   *asynq.Client
	Config  *config.Config
}

func NewTask(p TaskParams) *Task {
	return &Task{svc: p.Service, client: p.Asynq, cfg: p.Config}
}

// Enqueue schedules the shipment event for asynchronous processing on the
// webhook queue.
func (t *Task) Enqueue(ctx context.Context, payload ProcessShipmentPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	info, err := t.client.EnqueueContext(ctx,
		asynq.NewTask(taskname.ShipmentProcess, data),
		asynq.Queue(t.cfg.Webhook.Queue),
	)
	if err != nil {
		return err
	}

	zap.L().Info("shipment task enqueued",
		zap.String("task_id", info.ID),
		zap.String("company_id", payload.CompanyID),
		zap.String("event", payload.EventName),
	)
	return nil
}

func (t *Task) HandleProcessShipmentTask(ctx context.Context, task *asynq.Task) error {
	var payload ProcessShipmentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	zap.L().Info("processing shipment task",
		zap.String("task_type", task.Type()),
		zap.String("company_id", payload.CompanyID),
		zap.String("application_id", payload.ApplicationID),
		zap.String("event", payload.EventName),
	)

	return t.svc.ProcessShipmentEvent(ctx, payload.EventName, &payload.Body, payload.CompanyID, payload.ApplicationID)
}

func registerTaskHandlers(mux *asynq.ServeMux, task *Task) {
	mux.HandleFunc(taskname.ShipmentProcess, task.HandleProcessShipmentTask)
}
