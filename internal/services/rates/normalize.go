package rates

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"RatePulse/internal/domain/models"
)

// NormalizeRate coerces a raw rate token ("4.46% APY", "$1,234.5", 5.1) to a
// finite value rounded to 3 fractional digits. Invalid input is a normal
// (0, false) result, never an error.
func NormalizeRate(token models.RateToken) (float64, bool) {
	var b strings.Builder
	for _, r := range string(token) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.Round(3).InexactFloat64(), true
}

// Round3 rounds a rate to 3 fractional digits, half away from zero.
func Round3(v float64) float64 {
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}

// Round2 rounds an index value to 2 fractional digits.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Slugify derives the stable entity id from a display name: lowercased, runs
// of non-alphanumeric characters collapse to a single separator, leading and
// trailing separators trimmed.
func Slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuildEntities normalizes the live snapshot rows into EntityRecords, dropping
// rows whose rate token does not normalize or whose name yields no slug.
// Rows are ordered by current value descending, name ascending on ties.
func BuildEntities(accounts []models.Account) []models.EntityRecord {
	entities := make([]models.EntityRecord, 0, len(accounts))
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		v, ok := NormalizeRate(a.APY)
		if !ok {
			continue
		}
		id := Slugify(a.Institution)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		entities = append(entities, models.EntityRecord{
			ID:           id,
			DisplayName:  strings.TrimSpace(a.Institution),
			CurrentValue: v,
			ReferenceURL: a.Link,
		})
	}
	sortEntities(entities)
	return entities
}

// TopValue returns the highest current value across entities.
func TopValue(entities []models.EntityRecord) (float64, bool) {
	if len(entities) == 0 {
		return 0, false
	}
	top := entities[0].CurrentValue
	for _, e := range entities[1:] {
		if e.CurrentValue > top {
			top = e.CurrentValue
		}
	}
	return top, true
}

func sortEntities(entities []models.EntityRecord) {
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].CurrentValue != entities[j].CurrentValue {
			return entities[i].CurrentValue > entities[j].CurrentValue
		}
		return entities[i].ID < entities[j].ID
	})
}
