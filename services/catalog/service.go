package catalog

import (
	"context"
	"time"

	"go.uber.org/fx"

	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/session"
	"vipclub-backend/services/vipconfig"
)

type SessionSource interface {
	GetLatestSession(ctx context.Context) (*session.Session, error)
}

type CatalogReader interface {
	GetProducts(ctx context.Context, token, companyID string, pageNo, pageSize int, query string) (*platform.ProductPage, error)
	GetApplication(ctx context.Context, token, companyID, applicationID string) (*platform.Application, error)
}

// VipProductSelection is one admin-picked product granting a benefit.
type VipProductSelection struct {
	Plan string `json:"plan"`
	UID  int64  `json:"uid"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Service struct {
	sessions SessionSource
	platform CatalogReader
	configs  vipconfig.Store
	now      func() time.Time
}

type ServiceParams struct {
	fx.In

	Sessions *session.Service
	Platform *platform.Client
	Configs  vipconfig.Store
}

func NewService(p ServiceParams) *Service {
	return &Service{
		sessions: p.Sessions,
		platform: p.Platform,
		configs:  p.Configs,
		now:      time.Now,
	}
}

// ListProducts proxies the platform catalog search.
func (s *Service) ListProducts(ctx context.Context, companyID string, pageNo, pageSize int, query string) (*platform.ProductPage, error) {
	sess, err := s.sessions.GetLatestSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.platform.GetProducts(ctx, sess.AccessToken, companyID, pageNo, pageSize, query)
}

// GetApplication proxies a single sales-channel lookup.
func (s *Service) GetApplication(ctx context.Context, companyID, applicationID string) (*platform.Application, error) {
	sess, err := s.sessions.GetLatestSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.platform.GetApplication(ctx, sess.AccessToken, companyID, applicationID)
}

// VipProducts returns the company's configured VIP product mapping.
func (s *Service) VipProducts(ctx context.Context, companyID string) ([]map[string]vipconfig.ProductRef, error) {
	cfg, err := s.configs.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return []map[string]vipconfig.ProductRef{}, nil
	}
	return cfg.VipProducts, nil
}

// SaveVipProducts replaces the company's VIP product mapping. The selection
// drives shipment classification, so an empty list is rejected rather than
// silently disabling enrollment.
func (s *Service) SaveVipProducts(ctx context.Context, companyID string, selections []VipProductSelection) error {
	if len(selections) == 0 {
		return errutil.ValidationFailed("no products selected")
	}
	for _, sel := range selections {
		if sel.Plan == "" {
			return errutil.ValidationFailed("product selection missing plan")
		}
		if sel.UID == 0 && sel.Code == "" {
			return errutil.ValidationFailed("product selection missing uid and code")
		}
	}

	now := s.now()
	cfg, err := s.configs.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = vipconfig.NewVipConfig(companyID, now)
	}

	products := make([]map[string]vipconfig.ProductRef, 0, len(selections))
	for _, sel := range selections {
		products = append(products, map[string]vipconfig.ProductRef{
			sel.Plan: {UID: sel.UID, Name: sel.Name, Code: sel.Code},
		})
	}
	cfg.VipProducts = products
	cfg.UpdatedAt = now

	return s.configs.Save(ctx, cfg)
}
