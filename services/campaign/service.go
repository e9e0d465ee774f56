package campaign

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/gen"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/session"
	"vipclub-backend/services/vipconfig"
)

type SessionSource interface {
	GetLatestSession(ctx context.Context) (*session.Session, error)
}

type PromotionCreator interface {
	CreatePromotion(ctx context.Context, token, companyID, applicationID string, promo platform.Promotion) (*platform.PromotionResult, error)
}

type FailedApp struct {
	ApplicationID string `json:"applicationId"`
	Reason        string `json:"reason"`
}

type CreateRequest struct {
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Description    string             `json:"description"`
	OfferText      string             `json:"offerText"`
	OfferLabel     string             `json:"offerLabel"`
	ApplicationIDs []string           `json:"applicationIds"`
	ApplicationID  string             `json:"applicationId,omitempty"`
	Products       []ProductSelection `json:"products"`
	Discount       Discount           `json:"discount"`
	StartDate      time.Time          `json:"startDate"`
	EndDate        time.Time          `json:"endDate"`
	PreLaunchDays  int                `json:"preLaunchDays"`
}

type CreateResult struct {
	Success    bool        `json:"success"`
	CampaignID int         `json:"campaignId"`
	FailedApps []FailedApp `json:"failedApps"`
}

type Service struct {
	sessions  SessionSource
	platform  PromotionCreator
	configs   vipconfig.Store
	campaigns Store
	now       func() time.Time
	rnd       *rand.Rand
}

type ServiceParams struct {
	fx.In

	Sessions  *session.Service
	Platform  *platform.Client
	Configs   vipconfig.Store
	Campaigns Store
}

func NewService(p ServiceParams) *Service {
	return &Service{
		sessions:  p.Sessions,
		platform:  p.Platform,
		configs:   p.Configs,
		campaigns: p.Campaigns,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateCampaign creates one remote cart promotion per application that has
// a user group provisioned for the campaign's benefit type, then persists
// the campaign document with the per-application promotion IDs. Remote
// failures are collected per application; the campaign is inserted
// regardless. Product-exclusivity campaigns carry no discount, so no
// promotion is created for them.
func (s *Service) CreateCampaign(ctx context.Context, companyID string, req CreateRequest) (*CreateResult, error) {
	// A single application ID is normalized to a list of one.
	if len(req.ApplicationIDs) == 0 && req.ApplicationID != "" {
		req.ApplicationIDs = []string{req.ApplicationID}
	}
	if len(req.ApplicationIDs) == 0 {
		return nil, errutil.BadRequest("no sales channels selected")
	}
	if req.Type != TypeProductExclusivity && len(req.Products) == 0 {
		return nil, errutil.BadRequest("no products selected")
	}
	if req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, errutil.BadRequest("campaign window is invalid")
	}

	sess, err := s.sessions.GetLatestSession(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errutil.BadRequest("no plans configured for company")
	}

	promotions := make(map[string]string)
	var failed []FailedApp

	for _, appID := range req.ApplicationIDs {
		group, ok := cfg.GroupForPlan(appID, req.Type)
		if !ok {
			// No group to scope the promotion to; this application was
			// never provisioned for the benefit type.
			zap.L().Info("skipping application without provisioned group",
				zap.String("company_id", companyID),
				zap.String("application_id", appID),
				zap.String("type", req.Type),
			)
			continue
		}

		if req.Type == TypeProductExclusivity {
			continue
		}

		promo := buildPromotion(req, group.GroupID)
		res, err := s.platform.CreatePromotion(ctx, sess.AccessToken, companyID, appID, promo)
		if err != nil {
			zap.L().Warn("promotion create failed",
				zap.String("company_id", companyID),
				zap.String("application_id", appID),
				zap.Error(err),
			)
			failed = append(failed, FailedApp{ApplicationID: appID, Reason: err.Error()})
			continue
		}
		promotions[appID] = res.ID
	}

	doc := &Campaign{
		CompanyID:      companyID,
		ApplicationIDs: req.ApplicationIDs,
		Promotions:     promotions,
		Products:       req.Products,
		Discount:       req.Discount,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		PreLaunchDays:  req.PreLaunchDays,
		Name:           req.Name,
		OfferText:      req.OfferText,
		OfferLabel:     req.OfferLabel,
		Description:    req.Description,
		Type:           req.Type,
		CreatedAt:      s.now(),
	}

	// The generated 6-digit ID is not collision-free; the unique index
	// catches the rare clash and we regenerate.
	for attempt := 0; attempt < 3; attempt++ {
		doc.CampaignID = gen.Unique6Digit(s.now(), s.rnd)
		err = s.campaigns.Insert(ctx, doc)
		if !errors.Is(err, ErrDuplicateCampaignID) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, ErrDuplicateCampaignID) {
			return nil, errutil.Conflict("could not allocate a campaign id", errutil.WithErr(err))
		}
		return nil, err
	}

	return &CreateResult{Success: true, CampaignID: doc.CampaignID, FailedApps: failed}, nil
}

func buildPromotion(req CreateRequest, groupID int64) platform.Promotion {
	itemIDs := make([]int64, 0, len(req.Products))
	for _, p := range req.Products {
		itemIDs = append(itemIDs, p.UID)
	}

	rule := platform.DiscountRule{BuyCondition: "rule#1"}
	if req.Discount.Type == DiscountTypePercentage {
		rule.DiscountType = DiscountTypePercentage
		rule.Offer = platform.Offer{DiscountPercentage: req.Discount.Value}
	} else {
		rule.DiscountType = DiscountTypeAmount
		rule.Offer = platform.Offer{DiscountAmount: req.Discount.Value}
	}

	return platform.Promotion{
		Name:           req.Name,
		PromotionType:  rule.DiscountType,
		PromoGroup:     "product",
		ApplyExclusive: "cart",
		DiscountRules:  []platform.DiscountRule{rule},
		BuyRules: map[string]platform.BuyRule{
			"rule#1": {ItemID: itemIDs},
		},
		Restrictions: platform.PromotionRestrictions{UserGroups: []int64{groupID}},
		Schedule: platform.PromotionSchedule{
			Start: req.StartDate.Format(time.RFC3339),
			End:   req.EndDate.Format(time.RFC3339),
		},
		OfferText:  req.OfferText,
		OfferLabel: req.OfferLabel,
	}
}
