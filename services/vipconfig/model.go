package vipconfig

import (
	"time"

	"github.com/gosimple/slug"
)

// Benefit is a VIP perk type a company has turned on, e.g. CUSTOM_PROMOTIONS.
type Benefit struct {
	Title       string `bson:"title" json:"title"`
	IsEnabled   bool   `bson:"isEnabled" json:"isEnabled"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Img         string `bson:"img,omitempty" json:"img,omitempty"`
}

// ProductRef points at the platform product whose purchase grants a benefit.
type ProductRef struct {
	UID  int64  `bson:"uid" json:"uid"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
	Code string `bson:"code,omitempty" json:"code,omitempty"`
}

// AttributeRef records a remotely provisioned user attribute definition.
type AttributeRef struct {
	AttributeID string `bson:"attributeId" json:"attributeId"`
	Name        string `bson:"name" json:"name"`
}

// GroupRef records a remotely provisioned conditional user group.
type GroupRef struct {
	GroupID int64  `bson:"groupId" json:"groupId"`
	Name    string `bson:"name" json:"name"`
}

// VipConfig is the single per-company configuration document. The admin
// provisioners and the shipment processor converge on it; the remote
// attribute/group/promotion entities it references by ID are owned by the
// platform and never deleted from here.
type VipConfig struct {
	CompanyID        string                    `bson:"companyId" json:"companyId"`
	Benefits         []Benefit                 `bson:"benefits" json:"benefits"`
	VipProducts      []map[string]ProductRef   `bson:"vipProducts" json:"vipProducts"`
	ApplicationIDs   []string                  `bson:"applicationIds" json:"applicationIds"`
	UserAttributeIDs map[string][]AttributeRef `bson:"userAttributeIds" json:"userAttributeIds"`
	UserGroupIDs     map[string][]GroupRef     `bson:"userGrpIds" json:"userGrpIds"`
	CreatedAt        time.Time                 `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time                 `bson:"updatedAt" json:"updatedAt"`
}

// NewVipConfig returns an empty config for a company with maps initialized.
func NewVipConfig(companyID string, now time.Time) *VipConfig {
	return &VipConfig{
		CompanyID:        companyID,
		UserAttributeIDs: make(map[string][]AttributeRef),
		UserGroupIDs:     make(map[string][]GroupRef),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ProvisionedSlugs returns the set of benefit slugs already provisioned for
// an application. The (benefit, application) pair must be provisioned
// remotely at most once; this set is how re-runs detect it.
func (c *VipConfig) ProvisionedSlugs(applicationID string) map[string]struct{} {
	slugs := make(map[string]struct{})
	for _, ref := range c.UserAttributeIDs[applicationID] {
		slugs[slug.Make(ref.Name)] = struct{}{}
	}
	return slugs
}

// AttributeForPlan returns the provisioned attribute for a benefit title on
// an application.
func (c *VipConfig) AttributeForPlan(applicationID, title string) (AttributeRef, bool) {
	want := slug.Make(title)
	for _, ref := range c.UserAttributeIDs[applicationID] {
		if slug.Make(ref.Name) == want {
			return ref, true
		}
	}
	return AttributeRef{}, false
}

// GroupForPlan returns the provisioned user group for a benefit title on an
// application.
func (c *VipConfig) GroupForPlan(applicationID, title string) (GroupRef, bool) {
	want := slug.Make(title)
	for _, ref := range c.UserGroupIDs[applicationID] {
		if slug.Make(ref.Name) == want {
			return ref, true
		}
	}
	return GroupRef{}, false
}

// PlanForItem resolves which benefit a purchased item grants, matching the
// item code first and falling back to the product UID.
func (c *VipConfig) PlanForItem(code string, itemID int64) (string, bool) {
	for _, entry := range c.VipProducts {
		for title, ref := range entry {
			if code != "" && ref.Code == code {
				return title, true
			}
			if itemID != 0 && ref.UID == itemID {
				return title, true
			}
		}
	}
	return "", false
}

// MergeBenefits adds unseen benefit titles. Entries already present are
// never updated.
func (c *VipConfig) MergeBenefits(benefits []Benefit) {
	seen := make(map[string]struct{}, len(c.Benefits))
	for _, b := range c.Benefits {
		seen[b.Title] = struct{}{}
	}
	for _, b := range benefits {
		if _, ok := seen[b.Title]; ok {
			continue
		}
		c.Benefits = append(c.Benefits, b)
		seen[b.Title] = struct{}{}
	}
}

// MergeApplicationIDs unions the given application IDs into the config.
func (c *VipConfig) MergeApplicationIDs(ids []string) {
	seen := make(map[string]struct{}, len(c.ApplicationIDs))
	for _, id := range c.ApplicationIDs {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		c.ApplicationIDs = append(c.ApplicationIDs, id)
		seen[id] = struct{}{}
	}
}
