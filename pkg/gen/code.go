package gen

import (
	"math/rand"
	"time"
)

// Unique6Digit derives a campaign identifier from the last four digits of
// the unix-milli clock times 100 plus two random digits. A timestamp suffix
// with leading zeros would collapse below six digits, so those values are
// offset back into the 100000–999999 range. Uniqueness is not guaranteed
// here; callers enforce it with a unique index and retry.
func Unique6Digit(now time.Time, rnd *rand.Rand) int {
	n := int(now.UnixMilli()%10000)*100 + rnd.Intn(100)
	if n < 100000 {
		n += 100000
	}
	return n
}
