package campaign

import "time"

const (
	// TypeProductExclusivity gates products to VIP members without any
	// discount, so no cart promotion is created for it.
	TypeProductExclusivity = "PRODUCT_EXCLUSIVITY"
	TypeCustomPromotions   = "CUSTOM_PROMOTIONS"

	DiscountTypePercentage = "percentage"
	DiscountTypeAmount     = "amount"
)

type Discount struct {
	Type  string `bson:"type" json:"type"`
	Value string `bson:"value" json:"value"`
}

type ProductSelection struct {
	UID  int64  `bson:"uid" json:"uid"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

// Campaign is created once by the provisioner and is read-only afterwards
// except for attribution matching by the shipment processor. The active
// window is [StartDate, EndDate).
type Campaign struct {
	CampaignID     int                `bson:"campaignId" json:"campaignId"`
	CompanyID      string             `bson:"companyId" json:"companyId"`
	ApplicationIDs []string           `bson:"applicationIds" json:"applicationIds"`
	Promotions     map[string]string  `bson:"promotions" json:"promotions"`
	Products       []ProductSelection `bson:"products" json:"products"`
	Discount       Discount           `bson:"discount" json:"discount"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	PreLaunchDays  int                `bson:"preLaunchDays" json:"preLaunchDays"`
	Name           string             `bson:"name" json:"name"`
	OfferText      string             `bson:"offerText,omitempty" json:"offerText,omitempty"`
	OfferLabel     string             `bson:"offerLabel,omitempty" json:"offerLabel,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Type           string             `bson:"type" json:"type"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsActive reports whether now falls inside the campaign window.
func (c *Campaign) IsActive(now time.Time) bool {
	return !now.Before(c.StartDate) && now.Before(c.EndDate)
}
