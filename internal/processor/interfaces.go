package processor

import (
	"context"

	"comeback-digest-bot/internal/mailbox"
	"comeback-digest-bot/internal/models"
	"comeback-digest-bot/internal/spreadsheet"
)

// Mailbox abstracts inbound message retrieval.
type Mailbox interface {
	FetchToday(seen map[string]struct{}) ([]mailbox.Message, []string, error)
}

// OfferFetcher abstracts the remote comeback offer API.
type OfferFetcher interface {
	FetchComebacks(ctx context.Context) ([]models.Offer, error)
}

// StateStore abstracts the persisted processed-id document.
type StateStore interface {
	Load() *models.State
	Save(st *models.State) error
}

// Sender abstracts the outbound delivery channel. The bool reports
// whether the text was actually delivered; a local-only fallback
// returns false with no error.
type Sender interface {
	Send(ctx context.Context, text string) (bool, error)
}

// WorkbookLoader abstracts spreadsheet file reading.
type WorkbookLoader func(path string) (spreadsheet.Document, error)
