package shipment

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/analytics"
	"vipclub-backend/services/campaign"
	"vipclub-backend/services/session"
	"vipclub-backend/services/user"
	"vipclub-backend/services/vipconfig"
)

type SessionSource interface {
	GetLatestSession(ctx context.Context) (*session.Session, error)
}

type ConfigSource interface {
	Get(ctx context.Context, companyID string) (*vipconfig.VipConfig, error)
}

type UserWriter interface {
	Upsert(ctx context.Context, companyID, userID string, fields map[string]any) error
}

type CampaignSource interface {
	ActiveForApplication(ctx context.Context, companyID, applicationID string, now time.Time) ([]campaign.Campaign, error)
}

type AnalyticsWriter interface {
	Insert(ctx context.Context, rec analytics.Record) error
}

type AttributeWriter interface {
	SetUserAttribute(ctx context.Context, token, companyID, applicationID, attributeID, userID string) error
}

const (
	stepClassify        = "classify"
	stepEnrollLocal     = "enroll_local"
	stepAttributeRemote = "attribute_remote"
	stepAttributePromo  = "attribute_promo"
)

// Service processes shipment lifecycle events: VIP enrollment from tagged
// items, remote attribute sync, and promotion attribution. Each event runs
// the whole pipeline best-effort; remote and analytics failures are recorded
// on the event audit trail without aborting the remaining steps.
type Service struct {
	sessions  SessionSource
	platform  AttributeWriter
	configs   ConfigSource
	users     UserWriter
	campaigns CampaignSource
	analytics AnalyticsWriter
	events    EventStore
	node      *snowflake.Node
	now       func() time.Time
}

type ServiceParams struct {
	fx.In

	Sessions  *session.Service
	Platform  *platform.Client
	Configs   vipconfig.Store
	Users     user.Store
	Campaigns campaign.Store
	Analytics analytics.Store
	Events    EventStore
	Node      *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		sessions:  p.Sessions,
		platform:  p.Platform,
		configs:   p.Configs,
		users:     p.Users,
		campaigns: p.Campaigns,
		analytics: p.Analytics,
		events:    p.Events,
		node:      p.Node,
		now:       time.Now,
	}
}

// ProcessShipmentEvent runs the enrollment and attribution pipeline for one
// delivered shipment webhook. Only a nil shipment aborts early; every other
// miss (untagged items, unknown item code, no active campaign) is a recorded
// no-op so redeliveries stay safe.
func (s *Service) ProcessShipmentEvent(ctx context.Context, eventName string, body *WebhookBody, companyID, applicationID string) error {
	rec := &EventRecord{
		ID:            s.node.Generate().String(),
		EventName:     eventName,
		CompanyID:     companyID,
		ApplicationID: applicationID,
		CreatedAt:     s.now(),
	}
	defer s.record(ctx, rec)

	sh := body.Payload.Shipment
	if sh == nil {
		zap.L().Warn("shipment event without shipment payload",
			zap.String("event", eventName),
			zap.String("company_id", companyID),
		)
		rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepSkipped, Detail: "no shipment in payload"})
		return nil
	}
	rec.OrderID = sh.OrderID
	rec.ShipmentID = sh.ShipmentID

	info := ExtractUserInfo(sh)
	rec.UserID = info.UserID

	cfg, err := s.configs.Get(ctx, companyID)
	if err != nil {
		rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepFailed, Detail: err.Error()})
		return err
	}

	s.enrollVIP(ctx, rec, sh, info, cfg, companyID, applicationID)
	s.attributePromo(ctx, rec, sh, info, companyID, applicationID)
	return nil
}

// enrollVIP covers classification, the local user upsert, and the remote
// attribute write. A remote failure after the local upsert is logged and
// recorded but not compensated.
func (s *Service) enrollVIP(ctx context.Context, rec *EventRecord, sh *Shipment, info UserInfo, cfg *vipconfig.VipConfig, companyID, applicationID string) {
	item, ok := VIPItem(sh.Bags)
	if !ok {
		rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepSkipped, Detail: "no vip_product item"})
		return
	}

	if cfg == nil {
		rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepSkipped, Detail: "company has no vip config"})
		return
	}
	planKey, ok := cfg.PlanForItem(item.Code, item.ID)
	if !ok {
		zap.L().Info("vip item has no configured benefit",
			zap.String("company_id", companyID),
			zap.String("item_code", item.Code),
			zap.Int64("item_id", item.ID),
		)
		rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepSkipped, Detail: "item not in vip products"})
		return
	}
	rec.Steps = append(rec.Steps, Step{Name: stepClassify, Status: StepOK, Detail: planKey})

	days := VIPDaysFromTags(sh.Bags)
	expiry := sh.OrderCreatedTime(s.now()).Add(time.Duration(days) * 24 * time.Hour)

	fields := map[string]any{
		"firstName":     info.FirstName,
		"lastName":      info.LastName,
		"email":         info.Email,
		"phone":         info.Phone,
		"companyId":     companyID,
		"applicationId": applicationID,
		"orderId":       sh.OrderID,
		"isVIP":         true,
		"VIPDays":       days,
	}
	fields[planKey] = true
	fields[user.ExpiryField(planKey)] = expiry
	if err := s.users.Upsert(ctx, companyID, info.UserID, fields); err != nil {
		zap.L().Error("vip user upsert failed",
			zap.String("company_id", companyID),
			zap.String("user_id", info.UserID),
			zap.Error(err),
		)
		rec.Steps = append(rec.Steps, Step{Name: stepEnrollLocal, Status: StepFailed, Detail: err.Error()})
		return
	}
	rec.Steps = append(rec.Steps, Step{Name: stepEnrollLocal, Status: StepOK})

	attr, ok := cfg.AttributeForPlan(applicationID, planKey)
	if !ok {
		rec.Steps = append(rec.Steps, Step{Name: stepAttributeRemote, Status: StepSkipped, Detail: "no attribute provisioned for application"})
		return
	}

	sess, err := s.sessions.GetLatestSession(ctx)
	if err != nil {
		rec.Steps = append(rec.Steps, Step{Name: stepAttributeRemote, Status: StepFailed, Detail: err.Error()})
		return
	}
	if err := s.platform.SetUserAttribute(ctx, sess.AccessToken, companyID, applicationID, attr.AttributeID, info.UserID); err != nil {
		zap.L().Warn("remote attribute write failed, local enrollment kept",
			zap.String("company_id", companyID),
			zap.String("user_id", info.UserID),
			zap.String("attribute_id", attr.AttributeID),
			zap.Error(err),
		)
		rec.Steps = append(rec.Steps, Step{Name: stepAttributeRemote, Status: StepFailed, Detail: err.Error()})
		return
	}
	rec.Steps = append(rec.Steps, Step{Name: stepAttributeRemote, Status: StepOK})
}

// attributePromo matches applied promo identifiers against active campaigns
// and writes at most one analytics record per (order, campaign).
func (s *Service) attributePromo(ctx context.Context, rec *EventRecord, sh *Shipment, info UserInfo, companyID, applicationID string) {
	promoIDs := AppliedPromoIDs(sh.Bags)
	if len(promoIDs) == 0 {
		rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepSkipped, Detail: "no applied promotions"})
		return
	}

	active, err := s.campaigns.ActiveForApplication(ctx, companyID, applicationID, s.now())
	if err != nil {
		rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepFailed, Detail: err.Error()})
		return
	}

	applied := make(map[string]string, len(promoIDs))
	var promoType string
	for _, bag := range sh.Bags {
		for _, p := range bag.AppliedPromos {
			if p.PromoID != "" {
				applied[p.PromoID] = p.Type
			}
			if p.Code != "" {
				applied[p.Code] = p.Type
			}
		}
	}

	for _, c := range active {
		promoID, ok := c.Promotions[applicationID]
		if !ok {
			continue
		}
		promoType, ok = applied[promoID]
		if !ok {
			continue
		}

		record := analytics.Record{
			ID:            s.node.Generate().String(),
			UserID:        info.UserID,
			FirstName:     info.FirstName,
			LastName:      info.LastName,
			Email:         info.Email,
			Phone:         info.Phone,
			CompanyID:     companyID,
			ApplicationID: applicationID,
			OrderID:       sh.OrderID,
			CampaignID:    c.CampaignID,
			PromotionID:   promoID,
			PromotionType: promoType,
			CreatedAt:     s.now(),
		}
		err := s.analytics.Insert(ctx, record)
		switch {
		case errors.Is(err, analytics.ErrDuplicate):
			// Webhook redelivery; the first record stands.
			rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepSkipped, Detail: "order already attributed"})
		case err != nil:
			zap.L().Error("analytics insert failed",
				zap.String("company_id", companyID),
				zap.String("order_id", sh.OrderID),
				zap.Int("campaign_id", c.CampaignID),
				zap.Error(err),
			)
			rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepFailed, Detail: err.Error()})
		default:
			rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepOK})
		}
		return
	}
	rec.Steps = append(rec.Steps, Step{Name: stepAttributePromo, Status: StepSkipped, Detail: "no matching active campaign"})
}

func (s *Service) record(ctx context.Context, rec *EventRecord) {
	if err := s.events.Insert(ctx, rec); err != nil {
		zap.L().Warn("event audit insert failed", zap.String("event_id", rec.ID), zap.Error(err))
	}
}
