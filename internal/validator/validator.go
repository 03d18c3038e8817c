package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"comeback-digest-bot/internal/models"
)

// Validator wraps the validator library with offer-specific helpers.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateOffer checks an offer parsed from an external source against
// its struct tags before it is allowed into the merge.
func (v *Validator) ValidateOffer(o models.Offer) error {
	if err := v.validate.Struct(o); err != nil {
		return fmt.Errorf("offer %q failed validation: %w", o.OfferID, err)
	}
	return nil
}
