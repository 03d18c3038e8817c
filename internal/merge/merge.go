package merge

import (
	"comeback-digest-bot/internal/models"
	"comeback-digest-bot/internal/util"
)

// Offers joins the spreadsheet and API offer sequences into a set with
// no duplicate normalized ids. Spreadsheet attributes are
// authoritative and never overwritten; an API match only flips the
// source to both and fills numeric fields that are still absent.
// Merging the same inputs twice yields the same result.
func Offers(sheetOffers, apiOffers []models.Offer) []models.Offer {
	merged := make(map[string]*models.Offer, len(sheetOffers)+len(apiOffers))
	var keys []string

	for i := range sheetOffers {
		key := util.NormalizeOfferID(sheetOffers[i].OfferID)
		if _, exists := merged[key]; exists {
			continue
		}
		o := sheetOffers[i]
		merged[key] = &o
		keys = append(keys, key)
	}

	for i := range apiOffers {
		key := util.NormalizeOfferID(apiOffers[i].OfferID)
		existing, ok := merged[key]
		if !ok {
			o := apiOffers[i]
			merged[key] = &o
			keys = append(keys, key)
			continue
		}

		if existing.Source == models.SourceSpreadsheet {
			existing.Source = models.SourceBoth
		}
		if existing.Price == nil {
			existing.Price = apiOffers[i].Price
		}
		if existing.Mileage == nil {
			existing.Mileage = apiOffers[i].Mileage
		}
		if existing.Year == nil {
			existing.Year = apiOffers[i].Year
		}
	}

	out := make([]models.Offer, 0, len(keys))
	for _, key := range keys {
		out = append(out, *merged[key])
	}
	return out
}
