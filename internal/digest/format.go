package digest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"comeback-digest-bot/internal/models"
)

var sourceIcons = map[models.Source]string{
	models.SourceSpreadsheet: "📧",
	models.SourceAPI:         "🔌",
	models.SourceBoth:        "📧+🔌",
}

// groupOrder fixes the rendering order of categories.
var groupOrder = []struct {
	category models.Category
	header   string
}{
	{models.CategoryNotPurchased, "🔍 Не выкупленные"},
	{models.CategoryBackOnSale, "🔄 Снова в продаже"},
}

// Format renders the merged offer set into delivery-ready text. Groups
// without members are omitted entirely; an empty input yields "".
func Format(offers []models.Offer) string {
	var parts []string
	for _, group := range groupOrder {
		var members []models.Offer
		for _, o := range offers {
			if o.Category == group.category {
				members = append(members, o)
			}
		}
		if len(members) == 0 {
			continue
		}

		lines := []string{fmt.Sprintf("%s: %d авто\n", group.header, len(members))}
		for _, o := range members {
			lines = append(lines, o.OfferID+"/", detailLine(o), o.MobileURL)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// Header renders the digest title line.
func Header(now time.Time, hasAPI bool) string {
	label := "Email"
	if hasAPI {
		label = "Email + API"
	}
	return fmt.Sprintf("📧 Дайджест auto.ru — %s (%s)\n", now.Format("02.01.2006"), label)
}

func detailLine(o models.Offer) string {
	var b strings.Builder
	b.WriteString(o.Salon)
	b.WriteString(" ")
	b.WriteString(o.Brand)
	b.WriteString(" ")
	b.WriteString(o.Model)
	if o.Price != nil {
		b.WriteString(" | ")
		b.WriteString(FormatPrice(*o.Price))
	}
	if o.Mileage != nil {
		b.WriteString(" | ")
		b.WriteString(FormatMileage(*o.Mileage))
	}
	b.WriteString(" ")
	b.WriteString(sourceIcons[o.Source])
	return b.String()
}

// FormatPrice renders a ruble price compactly: millions with one
// decimal digit (trailing .0 elided), smaller values with
// space-grouped thousands.
func FormatPrice(price int) string {
	if price >= 1_000_000 {
		s := fmt.Sprintf("%.1fМ₽", float64(price)/1_000_000)
		return strings.Replace(s, ".0М", "М", 1)
	}
	return groupThousands(price) + "₽"
}

// FormatMileage renders a mileage with space-grouped thousands.
func FormatMileage(mileage int) string {
	return groupThousands(mileage) + "km"
}

func groupThousands(v int) string {
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
