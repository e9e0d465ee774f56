package shipment

import "time"

// WebhookBody is the shipment lifecycle notification delivered by the
// platform's webhook framework.
type WebhookBody struct {
	Event struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"event"`
	CompanyID     string  `json:"company_id"`
	ApplicationID string  `json:"application_id"`
	Payload       Payload `json:"payload"`
}

type Payload struct {
	Shipment *Shipment `json:"shipment"`
}

type Shipment struct {
	ShipmentID      string           `json:"shipment_id"`
	OrderID         string           `json:"order_id"`
	OrderCreated    string           `json:"order_created"`
	Bags            []Bag            `json:"bags"`
	User            *OrderUser       `json:"user"`
	DeliveryAddress *DeliveryAddress `json:"delivery_address"`
}

type Bag struct {
	Item          Item           `json:"item"`
	AppliedPromos []AppliedPromo `json:"applied_promos"`
}

type Item struct {
	ID   int64    `json:"id"`
	Code string   `json:"code"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type AppliedPromo struct {
	PromoID string `json:"promo_id"`
	Code    string `json:"code"`
	Type    string `json:"promotion_type"`
}

type OrderUser struct {
	ID          string `json:"user_oid"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	IsAnonymous bool   `json:"is_anonymous_user"`
}

type DeliveryAddress struct {
	Name             string `json:"name"`
	CountryPhoneCode string `json:"country_phone_code"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

// OrderCreatedTime parses the shipment's order timestamp, falling back to
// the supplied time when absent or malformed.
func (s *Shipment) OrderCreatedTime(fallback time.Time) time.Time {
	if s.OrderCreated == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s.OrderCreated); err == nil {
			return t
		}
	}
	return fallback
}
