package shipment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestVIPItemFirstMatchWins(t *testing.T) {
	bags := []Bag{
		{Item: Item{ID: 1, Code: "PLAIN", Tags: []string{"apparel"}}},
		{Item: Item{ID: 2, Code: "VIP-A", Tags: []string{"vip_product", "30_days"}}},
		{Item: Item{ID: 3, Code: "VIP-B", Tags: []string{"vip_product"}}},
	}

	item, ok := VIPItem(bags)
	require.True(t, ok)
	require.Equal(t, int64(2), item.ID)
	require.Equal(t, "VIP-A", item.Code)
}

func TestVIPItemNoMatch(t *testing.T) {
	bags := []Bag{
		{Item: Item{ID: 1, Tags: []string{"apparel", "sale"}}},
	}

	_, ok := VIPItem(bags)
	require.False(t, ok)
}

func TestVIPDaysFromTags(t *testing.T) {
	bags := []Bag{
		{Item: Item{Tags: []string{"x", "45_days", "y"}}},
	}
	require.Equal(t, 45, VIPDaysFromTags(bags))

	require.Equal(t, 0, VIPDaysFromTags([]Bag{
		{Item: Item{Tags: []string{"x", "y"}}},
	}))

	// Partial matches are not duration tags.
	require.Equal(t, 0, VIPDaysFromTags([]Bag{
		{Item: Item{Tags: []string{"45_days_extra", "days", "_days"}}},
	}))

	// First match across the flattened list wins.
	require.Equal(t, 30, VIPDaysFromTags([]Bag{
		{Item: Item{Tags: []string{"30_days"}}},
		{Item: Item{Tags: []string{"90_days"}}},
	}))
}

func TestExtractUserInfoAuthenticated(t *testing.T) {
	sh := &Shipment{
		User: &OrderUser{
			ID:        "user-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Mobile:    "5550001",
		},
		DeliveryAddress: &DeliveryAddress{Name: "Someone Else"},
	}

	info := ExtractUserInfo(sh)
	require.Equal(t, "user-1", info.UserID)
	require.Equal(t, "Ada", info.FirstName)
	require.Equal(t, "Lovelace", info.LastName)
	require.Equal(t, "ada@example.com", info.Email)
	require.Equal(t, "5550001", info.Phone)
}

func TestExtractUserInfoAnonymousSplitsName(t *testing.T) {
	sh := &Shipment{
		User: &OrderUser{IsAnonymous: true},
		DeliveryAddress: &DeliveryAddress{
			Name:             "Jane Doe",
			CountryPhoneCode: "+91",
			Phone:            "9999999999",
			Email:            "jane@example.com",
		},
	}

	info := ExtractUserInfo(sh)
	require.Equal(t, "Jane", info.FirstName)
	require.Equal(t, "Doe", info.LastName)
	require.Equal(t, "+919999999999", info.Phone)
	require.Equal(t, "jane@example.com", info.UserID)
}

func TestExtractUserInfoSingleWordName(t *testing.T) {
	sh := &Shipment{
		DeliveryAddress: &DeliveryAddress{Name: "Madonna", Email: "m@example.com"},
	}

	info := ExtractUserInfo(sh)
	require.Equal(t, "Madonna", info.FirstName)
	require.Equal(t, "Madonna", info.LastName)
}

func TestExtractUserInfoFallsBackToPhoneID(t *testing.T) {
	sh := &Shipment{
		DeliveryAddress: &DeliveryAddress{
			Name:             "Jane Doe",
			CountryPhoneCode: "+1",
			Phone:            "5550001",
		},
	}

	info := ExtractUserInfo(sh)
	require.Equal(t, "+15550001", info.UserID)
}

func TestAppliedPromoIDs(t *testing.T) {
	bags := []Bag{
		{AppliedPromos: []AppliedPromo{
			{PromoID: "p1", Code: "SAVE20"},
			{PromoID: "p2"},
		}},
		{AppliedPromos: []AppliedPromo{
			{PromoID: "p1", Code: "SAVE20"},
		}},
	}

	ids := AppliedPromoIDs(bags)
	require.ElementsMatch(t, []string{"p1", "SAVE20", "p2"}, ids)
}

func TestOrderCreatedTime(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	sh := &Shipment{OrderCreated: "2024-05-20T10:30:00Z"}
	require.Equal(t, time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC), sh.OrderCreatedTime(fallback))

	sh = &Shipment{OrderCreated: "2024-05-20 10:30:00"}
	require.Equal(t, time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC), sh.OrderCreatedTime(fallback))

	sh = &Shipment{OrderCreated: "garbage"}
	require.Equal(t, fallback, sh.OrderCreatedTime(fallback))

	sh = &Shipment{}
	require.Equal(t, fallback, sh.OrderCreatedTime(fallback))
}
