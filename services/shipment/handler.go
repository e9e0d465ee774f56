package shipment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"vipclub-backend/pkg/errutil"
)

type Handler struct {
	task *Task
}

type HandlerParams struct {
	fx.In

	Task *Task
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{task: p.Task}
}

// RegisterRoutes mounts the webhook endpoint. The platform authenticates
// deliveries itself and carries the company in the body, so the route sits
// outside the admin group.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.POST("/webhooks/shipment", h.receiveShipment)
}

func (h *Handler) receiveShipment(c *gin.Context) {
	var body WebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(errutil.BadRequest("invalid webhook body", errutil.WithErr(err)))
		return
	}
	if body.CompanyID == "" {
		_ = c.Error(errutil.BadRequest("missing company_id"))
		return
	}

	payload := ProcessShipmentPayload{
		EventName:     body.Event.Name,
		CompanyID:     body.CompanyID,
		ApplicationID: body.ApplicationID,
		Body:          body,
	}
	if err := h.task.Enqueue(c.Request.Context(), payload); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
