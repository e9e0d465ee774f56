package shipment

import (
	"regexp"
	"strconv"
	"strings"
)

const vipProductTag = "vip_product"

var dayTagPattern = regexp.MustCompile(`^(\d+)_days$`)

// VIPItem returns the first bag item carrying the vip_product tag.
func VIPItem(bags []Bag) (Item, bool) {
	for _, bag := range bags {
		for _, tag := range bag.Item.Tags {
			if tag == vipProductTag {
				return bag.Item, true
			}
		}
	}
	return Item{}, false
}

// VIPDaysFromTags scans bag item tags for a "<number>_days" tag and returns
// the first match. Zero means no duration tag was present.
func VIPDaysFromTags(bags []Bag) int {
	for _, bag := range bags {
		for _, tag := range bag.Item.Tags {
			m := dayTagPattern.FindStringSubmatch(tag)
			if m == nil {
				continue
			}
			days, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return days
		}
	}
	return 0
}

// UserInfo is the identity extracted from a shipment, either from the buyer
// profile or, for anonymous orders, from the delivery address.
type UserInfo struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// ExtractUserInfo resolves the ordering user. Anonymous orders have no
// profile, so the delivery address stands in: its name is split on the first
// space into first and last, a single-word name filling both.
func ExtractUserInfo(sh *Shipment) UserInfo {
	var info UserInfo

	if sh.User != nil && !sh.User.IsAnonymous {
		info.UserID = sh.User.ID
		info.FirstName = sh.User.FirstName
		info.LastName = sh.User.LastName
		info.Email = sh.User.Email
		info.Phone = sh.User.Mobile
	} else if addr := sh.DeliveryAddress; addr != nil {
		name := strings.TrimSpace(addr.Name)
		if i := strings.Index(name, " "); i >= 0 {
			info.FirstName = name[:i]
			info.LastName = strings.TrimSpace(name[i+1:])
		} else {
			info.FirstName = name
			info.LastName = name
		}
		info.Email = addr.Email
		info.Phone = addr.CountryPhoneCode + addr.Phone
	}

	if info.UserID == "" {
		if info.Email != "" {
			info.UserID = info.Email
		} else {
			info.UserID = info.Phone
		}
	}
	return info
}

// AppliedPromoIDs collects the distinct promotion identifiers applied across
// all bags, by promo id and by promo code.
func AppliedPromoIDs(bags []Bag) []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, bag := range bags {
		for _, promo := range bag.AppliedPromos {
			add(promo.PromoID)
			add(promo.Code)
		}
	}
	return out
}
