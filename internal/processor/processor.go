package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"comeback-digest-bot/internal/comeback"
	"comeback-digest-bot/internal/digest"
	"comeback-digest-bot/internal/merge"
	"comeback-digest-bot/internal/models"
	"comeback-digest-bot/internal/spreadsheet"
	"comeback-digest-bot/internal/util"
)

// Runner runs one complete digest batch.
type Runner interface {
	Run(ctx context.Context) error
}

// Pipeline executes the fetch → extract → merge → deliver → persist
// sequence for a single run.
type Pipeline struct {
	mailbox      Mailbox
	fetcher      OfferFetcher
	store        StateStore
	sender       Sender
	loadWorkbook WorkbookLoader
	now          func() time.Time
}

func New(mb Mailbox, fetcher OfferFetcher, store StateStore, sender Sender) *Pipeline {
	return &Pipeline{
		mailbox:      mb,
		fetcher:      fetcher,
		store:        store,
		sender:       sender,
		loadWorkbook: spreadsheet.Load,
		now:          time.Now,
	}
}

// Run executes a single batch. Source-level failures degrade to the
// remaining sources; only a failed delivery or state write makes the
// run report an error. State is committed strictly after a successful
// delivery, except that message ids yielding zero parseable offers are
// committed anyway so they are not refetched forever.
func (p *Pipeline) Run(ctx context.Context) error {
	st := p.store.Load()

	messages, newMessageIDs, err := p.mailbox.FetchToday(st.MessageIDSet())
	if err != nil {
		slog.Warn("Mailbox fetch failed, continuing with API source only", "error", err)
	}

	var downloaded []string
	defer func() {
		for _, f := range downloaded {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove downloaded file", "path", f, "error", err)
			}
		}
	}()

	var sheetOffers []models.Offer
	for _, msg := range messages {
		for _, path := range msg.Attachments {
			downloaded = append(downloaded, path)
			doc, err := p.loadWorkbook(path)
			if err != nil {
				slog.Warn("Skipping unreadable attachment", "path", path, "error", err)
				continue
			}
			sheetOffers = append(sheetOffers, spreadsheet.Extract(doc)...)
		}
	}
	slog.Info("Extracted offers from attachments", "count", len(sheetOffers), "messages", len(messages))

	apiOffers, err := p.fetcher.FetchComebacks(ctx)
	if err != nil {
		if errors.Is(err, comeback.ErrUnauthorized) {
			slog.Error("Comeback API session invalid, continuing without API source", "error", err)
		} else {
			slog.Warn("Comeback API fetch failed, continuing without API source", "error", err)
		}
	}
	apiOffers = p.filterSeen(st, apiOffers)

	merged := merge.Offers(sheetOffers, apiOffers)

	if len(merged) == 0 {
		if len(messages) > 0 {
			// The messages carried no usable data; commit their ids so
			// they are not reprocessed on every run.
			st.AddMessageIDs(newMessageIDs)
			if err := p.store.Save(st); err != nil {
				return fmt.Errorf("failed to persist state: %w", err)
			}
			slog.Info("Messages contained no parseable offers, ids committed", "messages", len(messages))
			return nil
		}
		slog.Info("No new offers from any source")
		return nil
	}

	hasAPI := false
	for _, o := range merged {
		if o.Source == models.SourceAPI || o.Source == models.SourceBoth {
			hasAPI = true
			break
		}
	}
	text := digest.Header(p.now(), hasAPI) + "\n" + digest.Format(merged)

	delivered, err := p.sender.Send(ctx, text)
	if err != nil {
		return fmt.Errorf("digest delivery failed: %w", err)
	}
	if !delivered {
		slog.Info("Digest not delivered, state left untouched", "offers", len(merged))
		return nil
	}

	st.AddMessageIDs(newMessageIDs)
	ids := make([]string, 0, len(apiOffers))
	for _, o := range apiOffers {
		ids = append(ids, util.NormalizeOfferID(o.OfferID))
	}
	st.AddAPIOfferIDs(ids)
	now := p.now().Format(time.RFC3339)
	st.LastFetch = &now
	if err := p.store.Save(st); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	slog.Info("Digest delivered", "offers", len(merged), "api_source", hasAPI)
	return nil
}

// filterSeen drops API offers already announced in a previous window,
// preventing re-announcement across overlapping day windows.
func (p *Pipeline) filterSeen(st *models.State, offers []models.Offer) []models.Offer {
	seen := st.APIOfferIDSet()
	if len(seen) == 0 {
		return offers
	}
	kept := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if _, ok := seen[util.NormalizeOfferID(o.OfferID)]; ok {
			continue
		}
		kept = append(kept, o)
	}
	if skipped := len(offers) - len(kept); skipped > 0 {
		slog.Info("Filtered already delivered API offers", "skipped", skipped)
	}
	return kept
}
