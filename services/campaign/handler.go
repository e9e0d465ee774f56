package campaign

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"vipclub-backend/internal/httpapi"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/middleware"
)

type Handler struct {
	svc   *Service
	store Store
}

type HandlerParams struct {
	fx.In

	Service *Service
	Store   Store
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{svc: p.Service, store: p.Store}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	g := httpapi.AdminGroup(r)
	g.POST("/promotions/create-campaign", h.createCampaign)
	g.GET("/promotions", h.listCampaigns)
}

func (h *Handler) createCampaign(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	result, err := h.svc.CreateCampaign(c.Request.Context(), companyID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) listCampaigns(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	campaigns, err := h.store.List(c.Request.Context(), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": campaigns})
}
