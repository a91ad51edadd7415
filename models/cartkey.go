package models

import (
	"sort"
	"strings"
)

// CartKey identifies one cart line: a food item plus the exact
// customization selection. Two orders of the same item with different
// options are distinct lines.
type CartKey struct {
	FoodID         string
	Customizations map[string]string // group name -> option name
}

// Encode renders the key in its canonical form:
// foodid, or foodid|group=option;group=option with groups sorted by name.
// The result is stable for equal selections regardless of map order, and
// safe as a MongoDB field name.
func (k CartKey) Encode() string {
	if len(k.Customizations) == 0 {
		return sanitizeKey(k.FoodID)
	}

	groups := make([]string, 0, len(k.Customizations))
	for g := range k.Customizations {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var b strings.Builder
	b.WriteString(k.FoodID)
	b.WriteByte('|')
	for i, g := range groups {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(g)
		b.WriteByte('=')
		b.WriteString(k.Customizations[g])
	}
	return sanitizeKey(b.String())
}

// Mongo forbids '.' and a leading '$' in field names.
var keySanitizer = strings.NewReplacer(".", "_", "$", "_")

// SanitizeCartKey makes an externally supplied cart key safe to use as a
// Mongo field name. Keys produced by Encode are already in this form.
func SanitizeCartKey(s string) string {
	return keySanitizer.Replace(s)
}

func sanitizeKey(s string) string {
	return SanitizeCartKey(s)
}
