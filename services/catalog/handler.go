package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"vipclub-backend/internal/httpapi"
	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/middleware"
)

type Handler struct {
	svc *Service
}

type HandlerParams struct {
	fx.In

	Service *Service
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{svc: p.Service}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	g := httpapi.AdminGroup(r)
	g.GET("/products", h.listProducts)
	g.GET("/vip-products", h.listVipProducts)
	g.POST("/vip-products", h.saveVipProducts)
	g.GET("/application/:id", h.getApplication)
}

func (h *Handler) listProducts(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	pageNo, _ := strconv.Atoi(c.DefaultQuery("page_no", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	query := c.Query("q")

	page, err := h.svc.ListProducts(c.Request.Context(), companyID, pageNo, pageSize, query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) listVipProducts(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	products, err := h.svc.VipProducts(c.Request.Context(), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": products})
}

func (h *Handler) saveVipProducts(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	var req struct {
		Products []VipProductSelection `json:"products"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	if err := h.svc.SaveVipProducts(c.Request.Context(), companyID, req.Products); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) getApplication(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	app, err := h.svc.GetApplication(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, app)
}
