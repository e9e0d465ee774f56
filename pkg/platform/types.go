package platform

// AttributeDefinition is the request body for creating a boolean user
// attribute definition on the platform.
type AttributeDefinition struct {
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Type             string `json:"type"`
	Description      string `json:"description"`
	CustomerEditable bool   `json:"customer_editable"`
	Encrypted        bool   `json:"encrypted"`
}

type GroupCondition struct {
	UserAttributeDefinitionID string `json:"user_attribute_definition_id"`
	Value                     bool   `json:"value"`
	Type                      string `json:"type"`
}

// UserGroup is the request body for creating a conditional user group.
type UserGroup struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Conditions  []GroupCondition `json:"conditions"`
}

type Offer struct {
	DiscountPercentage string `json:"discount_percentage,omitempty"`
	DiscountAmount     string `json:"discount_amount,omitempty"`
}

type DiscountRule struct {
	DiscountType string `json:"discount_type"`
	BuyCondition string `json:"buy_condition"`
	Offer        Offer  `json:"offer"`
}

type BuyRule struct {
	ItemID []int64 `json:"item_id"`
}

type PromotionRestrictions struct {
	UserGroups []int64 `json:"user_groups"`
}

type PromotionSchedule struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Promotion is the cart promotion create request.
type Promotion struct {
	Name           string                `json:"name"`
	PromotionType  string                `json:"promotion_type"`
	PromoGroup     string                `json:"promo_group"`
	ApplyExclusive string                `json:"apply_exclusive"`
	DiscountRules  []DiscountRule        `json:"discount_rules"`
	BuyRules       map[string]BuyRule    `json:"buy_rules"`
	Restrictions   PromotionRestrictions `json:"restrictions"`
	Schedule       PromotionSchedule     `json:"_schedule"`
	OfferText      string                `json:"offer_text,omitempty"`
	OfferLabel     string                `json:"offer_label,omitempty"`
}

type AttributeDefinitionResult struct {
	ID string `json:"_id"`
}

type UserGroupResult struct {
	UID  int64  `json:"uid"`
	Name string `json:"name"`
}

type PromotionResult struct {
	ID string `json:"_id"`
}

// Product is the subset of the platform catalog item this service reads.
type Product struct {
	UID  int64    `json:"uid"`
	Name string   `json:"name"`
	Slug string   `json:"slug"`
	Code string   `json:"item_code"`
	Tags []string `json:"tags"`
}

type ProductPage struct {
	Items []Product `json:"items"`
	Page  struct {
		Current int  `json:"current"`
		Size    int  `json:"size"`
		HasNext bool `json:"has_next"`
	} `json:"page"`
}

// Application is a sales channel under the company.
type Application struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Domain struct {
		Name string `json:"name"`
	} `json:"domain"`
}

type ApplicationPage struct {
	Items []Application `json:"items"`
}
