package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/session"
	"vipclub-backend/services/vipconfig"
)

// SessionSource yields the platform auth session.
type SessionSource interface {
	GetLatestSession(ctx context.Context) (*session.Session, error)
}

// Provisioner is the slice of the platform API this service drives.
type Provisioner interface {
	CreateUserAttributeDefinition(ctx context.Context, token, companyID, applicationID string, def platform.AttributeDefinition) (*platform.AttributeDefinitionResult, error)
	CreateUserGroup(ctx context.Context, token, companyID, applicationID string, group platform.UserGroup) (*platform.UserGroupResult, error)
}

// FailedApp records one provisioning call that failed. The overall
// operation keeps going; callers surface the list to the admin UI.
type FailedApp struct {
	ApplicationID string `json:"applicationId"`
	Plan          string `json:"plan"`
	Reason        string `json:"reason"`
}

type ConfigureResult struct {
	Success    bool        `json:"success"`
	FailedApps []FailedApp `json:"failedApps"`
}

type Service struct {
	sessions SessionSource
	platform Provisioner
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

// ConfigurePlans provisions a boolean user attribute definition and a
// conditional user group on the platform for every (application, enabled
// plan) pair not already provisioned, and records the remote IDs in the
// company's config. Individual remote failures are collected and skipped;
// there is no rollback.
func (s *Service) ConfigurePlans(ctx context.Context, companyID string, applicationIDs []string, plans []vipconfig.Benefit) (*ConfigureResult, error) {
	enabled := make([]vipconfig.Benefit, 0, len(plans))
	for _, p := range plans {
		if p.IsEnabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, errutil.BadRequest("no plans enabled")
	}
	if len(applicationIDs) == 0 {
		return nil, errutil.BadRequest("no sales channels selected")
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
		cfg = vipconfig.NewVipConfig(companyID, s.now())
	}

	var failed []FailedApp
	for _, appID := range applicationIDs {
		provisioned := cfg.ProvisionedSlugs(appID)

		for _, p := range enabled {
			sl := slug.Make(p.Title)
			if _, ok := provisioned[sl]; ok {
				continue
			}

			attr, err := s.platform.CreateUserAttributeDefinition(ctx, sess.AccessToken, companyID, appID, platform.AttributeDefinition{
				Name:             humanize(p.Title),
				Slug:             sl,
				Type:             "boolean",
				Description:      fmt.Sprintf("Marks members enrolled in the %s VIP plan", humanize(p.Title)),
				CustomerEditable: false,
				Encrypted:        false,
			})
			if err != nil {
				zap.L().Warn("attribute definition create failed",
					zap.String("company_id", companyID),
					zap.String("application_id", appID),
					zap.String("plan", p.Title),
					zap.Error(err),
				)
				failed = append(failed, FailedApp{ApplicationID: appID, Plan: p.Title, Reason: err.Error()})
				continue
			}
			cfg.UserAttributeIDs[appID] = append(cfg.UserAttributeIDs[appID], vipconfig.AttributeRef{
				AttributeID: attr.ID,
				Name:        p.Title,
			})

			group, err := s.platform.CreateUserGroup(ctx, sess.AccessToken, companyID, appID, platform.UserGroup{
				Name:        humanize(p.Title),
				Description: fmt.Sprintf("Members holding the %s VIP benefit", humanize(p.Title)),
				Type:        "conditional",
				Conditions: []platform.GroupCondition{
					{UserAttributeDefinitionID: attr.ID, Value: true, Type: "eq"},
				},
			})
			if err != nil {
				zap.L().Warn("user group create failed",
					zap.String("company_id", companyID),
					zap.String("application_id", appID),
					zap.String("plan", p.Title),
					zap.Error(err),
				)
				failed = append(failed, FailedApp{ApplicationID: appID, Plan: p.Title, Reason: err.Error()})
				continue
			}
			cfg.UserGroupIDs[appID] = append(cfg.UserGroupIDs[appID], vipconfig.GroupRef{
				GroupID: group.UID,
				Name:    p.Title,
			})

			provisioned[sl] = struct{}{}
		}
	}

	cfg.MergeBenefits(enabled)
	cfg.MergeApplicationIDs(applicationIDs)
	cfg.UpdatedAt = s.now()

	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	return &ConfigureResult{Success: true, FailedApps: failed}, nil
}

// humanize turns CUSTOM_PROMOTIONS into "Custom Promotions".
func humanize(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
