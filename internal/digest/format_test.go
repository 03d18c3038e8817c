package digest

import (
	"strings"
	"testing"
	"time"

	"comeback-digest-bot/internal/models"
)

func intPtr(v int) *int { return &v }

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price int
		want  string
	}{
		{
			name:  "Millions with fraction",
			price: 1_500_000,
			want:  "1.5М₽",
		},
		{
			name:  "Whole millions drop the fraction",
			price: 2_000_000,
			want:  "2М₽",
		},
		{
			name:  "Below a million uses space grouping",
			price: 890_000,
			want:  "890 000₽",
		},
		{
			name:  "Small value",
			price: 999,
			want:  "999₽",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.price); got != tt.want {
				t.Errorf("FormatPrice(%d) = %q, want %q", tt.price, got, tt.want)
			}
		})
	}
}

func TestFormatMileage(t *testing.T) {
	if got := FormatMileage(81_000); got != "81 000km" {
		t.Errorf("FormatMileage(81000) = %q, want %q", got, "81 000km")
	}
	if got := FormatMileage(500); got != "500km" {
		t.Errorf("FormatMileage(500) = %q, want %q", got, "500km")
	}
}

func TestFormat_GroupOrderAndContent(t *testing.T) {
	offers := []models.Offer{
		{
			OfferID:   "def-456",
			Brand:     "KIA",
			Model:     "RIO",
			Salon:     "KRD",
			Category:  models.CategoryBackOnSale,
			Source:    models.SourceAPI,
			MobileURL: "https://m.auto.ru/cars/used/sale/kia/rio/def-456/",
			Price:     intPtr(890_000),
		},
		{
			OfferID:   "abc-123",
			Brand:     "TOYOTA",
			Model:     "CAMRY",
			Salon:     "EKT",
			Category:  models.CategoryNotPurchased,
			Source:    models.SourceBoth,
			MobileURL: "https://m.auto.ru/cars/used/sale/toyota/camry/abc-123/",
			Price:     intPtr(1_500_000),
			Mileage:   intPtr(81_000),
		},
	}

	text := Format(offers)

	notPurchased := strings.Index(text, "🔍 Не выкупленные: 1 авто")
	backOnSale := strings.Index(text, "🔄 Снова в продаже: 1 авто")
	if notPurchased == -1 || backOnSale == -1 {
		t.Fatalf("Missing group headers in:\n%s", text)
	}
	if notPurchased > backOnSale {
		t.Error("Not-purchased group must render before back-on-sale")
	}

	if !strings.Contains(text, "abc-123/") {
		t.Error("Offer id line missing trailing slash")
	}
	if !strings.Contains(text, "EKT TOYOTA CAMRY | 1.5М₽ | 81 000km 📧+🔌") {
		t.Errorf("Detail line malformed in:\n%s", text)
	}
	if !strings.Contains(text, "KRD KIA RIO | 890 000₽ 🔌") {
		t.Errorf("API detail line malformed in:\n%s", text)
	}
	if !strings.Contains(text, "https://m.auto.ru/cars/used/sale/toyota/camry/abc-123/") {
		t.Error("Mobile URL line missing")
	}
}

func TestFormat_OmitsEmptyGroups(t *testing.T) {
	offers := []models.Offer{
		{
			OfferID:  "abc-123",
			Brand:    "TOYOTA",
			Model:    "CAMRY",
			Salon:    "EKT",
			Category: models.CategoryNotPurchased,
			Source:   models.SourceSpreadsheet,
		},
	}

	text := Format(offers)
	if strings.Contains(text, "Снова в продаже") {
		t.Error("Empty back-on-sale group must be omitted")
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty string", got)
	}
}

func TestHeader(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	got := Header(now, false)
	want := "📧 Дайджест auto.ru — 15.06.2025 (Email)\n"
	if got != want {
		t.Errorf("Header(now, false) = %q, want %q", got, want)
	}

	got = Header(now, true)
	if !strings.Contains(got, "(Email + API)") {
		t.Errorf("Header(now, true) = %q, want Email + API label", got)
	}
}
