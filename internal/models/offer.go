package models

// Category classifies why a listing came back.
type Category string

const (
	CategoryNotPurchased Category = "not_purchased"
	CategoryBackOnSale   Category = "back_on_sale"
)

// Source records which input produced an offer.
type Source string

const (
	SourceSpreadsheet Source = "spreadsheet"
	SourceAPI         Source = "api"
	SourceBoth        Source = "both"
)

// Offer represents one comeback listing under consideration.
type Offer struct {
	OfferID   string   `json:"offer_id" validate:"required"`
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	Salon     string   `json:"salon"`
	Category  Category `json:"category" validate:"required,oneof=not_purchased back_on_sale"`
	Source    Source   `json:"source"`
	MobileURL string   `json:"mobile_url" validate:"omitempty,url"`

	// Present only when the source supplied a nonzero value.
	Price   *int `json:"price,omitempty"`
	Mileage *int `json:"mileage,omitempty"`
	Year    *int `json:"year,omitempty"`
}
