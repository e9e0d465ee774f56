package plan

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"vipclub-backend/internal/httpapi"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/middleware"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/vipconfig"
)

type configurePlansRequest struct {
	ApplicationIDs []string            `json:"applicationIds"`
	Plans          []vipconfig.Benefit `json:"plans"`
}

type Handler struct {
	svc      *Service
	configs  vipconfig.Store
	platform *platform.Client
	sessions SessionSource
}

type HandlerParams struct {
	fx.In

	Service  *Service
	Configs  vipconfig.Store
	Platform *platform.Client
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{svc: p.Service, configs: p.Configs, platform: p.Platform, sessions: p.Service.sessions}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	g := httpapi.AdminGroup(r)
	g.GET("/sales-channels", h.listSalesChannels)
	g.POST("/sales-channels/configure-plans", h.configurePlans)
}

func (h *Handler) configurePlans(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	var req configurePlansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	result, err := h.svc.ConfigurePlans(c.Request.Context(), companyID, req.ApplicationIDs, req.Plans)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) listSalesChannels(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := middleware.GetCompanyID(c)

	sess, err := h.sessions.GetLatestSession(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.platform.GetApplications(ctx, sess.AccessToken, companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	configured := make(map[string]bool)
	if cfg, err := h.configs.Get(ctx, companyID); err == nil && cfg != nil {
		for _, id := range cfg.ApplicationIDs {
			configured[id] = true
		}
	}

	type salesChannel struct {
		platform.Application
		Configured bool `json:"configured"`
	}

	out := make([]salesChannel, 0, len(page.Items))
	for _, app := range page.Items {
		out = append(out, salesChannel{Application: app, Configured: configured[app.ID]})
	}

	c.JSON(http.StatusOK, gin.H{"items": out})
}
