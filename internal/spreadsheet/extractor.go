package spreadsheet

import (
	"strings"

	"comeback-digest-bot/internal/models"
	"comeback-digest-bot/internal/util"
)

// Sheet name markers selecting which category a sheet feeds. Sheets
// without either marker are ignored.
const (
	markerNotPurchased = "совпадения"
	markerBackOnSale   = "найденные"
)

// Header synonyms per extracted field, checked case-insensitively in
// declared order.
var (
	brandColumns = []string{"марка", "бренд"}
	modelColumns = []string{"модель"}
	salonColumns = []string{"автосалон", "салон"}
	linkColumns  = []string{"ссылка на объявление", "ссылка"}
)

// Extract turns a tabular document into offer records. Rows whose link
// yields no usable offer id are dropped silently; exported sheets
// routinely carry blank trailer rows. Duplicate raw ids within one
// sheet keep the first occurrence.
func Extract(doc Document) []models.Offer {
	var offers []models.Offer
	for _, sheet := range doc.Sheets {
		category, ok := sheetCategory(sheet.Name)
		if !ok || len(sheet.Rows) < 2 {
			continue
		}

		headers := sheet.Rows[0]
		iBrand := columnIndex(headers, brandColumns...)
		iModel := columnIndex(headers, modelColumns...)
		iSalon := columnIndex(headers, salonColumns...)
		iLink := columnIndex(headers, linkColumns...)

		seen := make(map[string]struct{})
		for _, row := range sheet.Rows[1:] {
			url := util.ExtractHyperlinkURL(cell(row, iLink))
			offerID := util.ExtractOfferID(url)
			if offerID == "" {
				continue
			}
			if _, dup := seen[offerID]; dup {
				continue
			}
			seen[offerID] = struct{}{}

			offers = append(offers, models.Offer{
				OfferID:   offerID,
				Brand:     strings.ToUpper(cell(row, iBrand)),
				Model:     strings.ReplaceAll(strings.ToUpper(cell(row, iModel)), " ", "_"),
				Salon:     util.ShortSalon(cell(row, iSalon)),
				Category:  category,
				Source:    models.SourceSpreadsheet,
				MobileURL: util.MobileURL(url),
			})
		}
	}
	return offers
}

func sheetCategory(name string) (models.Category, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, markerNotPurchased):
		return models.CategoryNotPurchased, true
	case strings.Contains(lower, markerBackOnSale):
		return models.CategoryBackOnSale, true
	}
	return "", false
}

// columnIndex finds a column by header name, case-insensitively.
// Returns -1 when the header carries none of the names; the field then
// stays empty for every row rather than failing the sheet.
func columnIndex(headers []string, names ...string) int {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		if h != "" {
			byName[strings.ToLower(strings.TrimSpace(h))] = i
		}
	}
	for _, name := range names {
		if i, ok := byName[name]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
