package analytics

import "time"

// Record attributes one order to one promotional campaign. Records are
// append-only and immutable.
type Record struct {
	ID            string    `bson:"_id" json:"id"`
	UserID        string    `bson:"userId" json:"userId"`
	FirstName     string    `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName      string    `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyID     string    `bson:"companyId" json:"companyId"`
	ApplicationID string    `bson:"applicationId" json:"applicationId"`
	OrderID       string    `bson:"orderId" json:"orderId"`
	CampaignID    int       `bson:"campaignId" json:"campaignId"`
	PromotionID   string    `bson:"promotionId" json:"promotionId"`
	PromotionType string    `bson:"promotionType,omitempty" json:"promotionType,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
