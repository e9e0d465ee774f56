package user

import "time"

// User is the per-company member document, keyed by userId. Benefit flags
// and their expiry dates are dynamic fields ("<planKey>" and
// "<planKey>_Expiry") accumulated over time from different purchases, so
// writes go through field-level upserts rather than this struct.
type User struct {
	UserID        string    `bson:"userId" json:"userId"`
	FirstName     string    `bson:"firstName" json:"firstName"`
	LastName      string    `bson:"lastName" json:"lastName"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyID     string    `bson:"companyId" json:"companyId"`
	ApplicationID string    `bson:"applicationId" json:"applicationId"`
	OrderID       string    `bson:"orderId" json:"orderId"`
	VIPDays       int       `bson:"VIPDays" json:"VIPDays"`
	IsVIP         bool      `bson:"isVIP" json:"isVIP"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ExpiryField returns the dynamic expiry field name for a plan key.
func ExpiryField(planKey string) string {
	return planKey + "_Expiry"
}
