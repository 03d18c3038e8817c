package comeback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"comeback-digest-bot/internal/models"
	"comeback-digest-bot/internal/util"
	"comeback-digest-bot/internal/validator"
)

// ErrUnauthorized reports an invalid or expired session id. This is a
// configuration problem, not a transient fault, and is never retried.
var ErrUnauthorized = errors.New("comeback API session unauthorized")

const (
	maxRetries = 1
	retryDelay = 3 * time.Second
)

// mskZone is the fixed offset the offer creation window is anchored to.
var mskZone = time.FixedZone("MSK", 3*60*60)

// Client fetches comeback offers from the remote offer API.
type Client struct {
	apiURL     string
	sessionID  string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	validator  *validator.Validator
	now        func() time.Time
}

func New(apiURL, sessionID string, pageSize int) *Client {
	return &Client{
		apiURL:     apiURL,
		sessionID:  sessionID,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		validator:  validator.New(),
		now:        time.Now,
	}
}

type requestFilter struct {
	CreationDateFrom string `json:"creation_date_from"`
	CreationDateTo   string `json:"creation_date_to"`
}

type pageRequest struct {
	Filter   requestFilter `json:"filter"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type pageResponse struct {
	Offers     []comebackItem `json:"offers"`
	Items      []comebackItem `json:"items"`
	Pagination struct {
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
}

type comebackItem struct {
	ComebackType string   `json:"comeback_type"`
	Offer        apiOffer `json:"offer"`
}

type apiOffer struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Section string `json:"section"`
	CarInfo struct {
		MarkInfo struct {
			Name string `json:"name"`
		} `json:"mark_info"`
		ModelInfo struct {
			Name string `json:"name"`
		} `json:"model_info"`
	} `json:"car_info"`
	Salon struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"salon"`
	PriceInfo struct {
		Price int `json:"price"`
		RUR   int `json:"RUR"`
	} `json:"price_info"`
	State struct {
		Mileage int `json:"mileage"`
	} `json:"state"`
	Documents struct {
		Year int `json:"year"`
	} `json:"documents"`
}

// FetchComebacks fetches all comeback offers created during the
// previous calendar day (fixed UTC+3 window). A missing session id
// disables the API path and yields an empty result with no error. When
// a page fails past the single retry, whatever was accumulated so far
// is returned and the caller continues with spreadsheet-only data; an
// ErrUnauthorized is surfaced so it can be reported distinctly.
func (c *Client) FetchComebacks(ctx context.Context) ([]models.Offer, error) {
	if c.sessionID == "" {
		slog.Info("Session id not set, skipping comeback API")
		return nil, nil
	}

	nowMSK := c.now().In(mskZone)
	todayStart := time.Date(nowMSK.Year(), nowMSK.Month(), nowMSK.Day(), 0, 0, 0, 0, mskZone)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	filter := requestFilter{
		CreationDateFrom: strconv.FormatInt(yesterdayStart.UnixMilli(), 10),
		CreationDateTo:   strconv.FormatInt(todayStart.UnixMilli(), 10),
	}
	slog.Info("Fetching comeback offers",
		"from", yesterdayStart.Format("02.01.2006"),
		"to", todayStart.Format("02.01.2006"))

	var all []models.Offer
	fetched := 0
	for page := 1; ; page++ {
		result, err := c.fetchPage(ctx, filter, page)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return all, err
			}
			slog.Warn("Comeback API unavailable, continuing with what was fetched", "page", page, "error", err)
			return all, nil
		}

		items := result.Offers
		if len(items) == 0 {
			items = result.Items
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			offer, ok := c.mapItem(item)
			if ok {
				all = append(all, offer)
			}
		}
		fetched += len(items)
		slog.Info("Fetched comeback page", "page", page, "items", len(items), "total", result.Pagination.TotalCount)

		// A short page or reaching the reported total both signal the end.
		if fetched >= result.Pagination.TotalCount || len(items) < c.pageSize {
			break
		}
	}

	slog.Info("Comeback fetch complete", "offers", len(all))
	return all, nil
}

// fetchPage issues one page request with a bounded fixed-delay retry.
// An unauthorized response aborts immediately without retrying.
func (c *Client) fetchPage(ctx context.Context, filter requestFilter, page int) (*pageResponse, error) {
	payload, err := json.Marshal(pageRequest{Filter: filter, Page: page, PageSize: c.pageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to encode comeback request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		result, err := c.doRequest(ctx, payload)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		lastErr = err
		slog.Warn("Comeback API request failed", "page", page, "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("comeback page %d failed after %d attempts: %w", page, maxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, payload []byte) (*pageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create comeback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Both header spellings: the endpoint accepts either convention.
	req.Header.Set("x-session-id", c.sessionID)
	req.Header.Set("X-Authorization", c.sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comeback request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("comeback API status %d: %s", resp.StatusCode, string(body))
	}

	var result pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode comeback response: %w", err)
	}
	return &result, nil
}

// mapItem flattens one API item into an Offer. Items without an id or
// failing validation are skipped, never fatal to the batch.
func (c *Client) mapItem(item comebackItem) (models.Offer, bool) {
	if item.Offer.ID == "" {
		return models.Offer{}, false
	}

	category := models.CategoryNotPurchased
	if item.ComebackType == "BACK_ON_SALE" {
		category = models.CategoryBackOnSale
	}

	brand := strings.ToUpper(item.Offer.CarInfo.MarkInfo.Name)
	model := strings.ReplaceAll(strings.ToUpper(item.Offer.CarInfo.ModelInfo.Name), " ", "_")

	salonName := item.Offer.Salon.Code
	if salonName == "" {
		salonName = item.Offer.Salon.Name
	}

	offer := models.Offer{
		OfferID:   item.Offer.ID,
		Brand:     brand,
		Model:     model,
		Salon:     util.ShortSalonFromAPI(salonName),
		Category:  category,
		Source:    models.SourceAPI,
		MobileURL: listingURL(item.Offer, brand, model),
		Price:     optionalInt(firstNonZero(item.Offer.PriceInfo.Price, item.Offer.PriceInfo.RUR)),
		Mileage:   optionalInt(item.Offer.State.Mileage),
		Year:      optionalInt(item.Offer.Documents.Year),
	}

	if err := c.validator.ValidateOffer(offer); err != nil {
		slog.Warn("Skipping invalid comeback item", "error", err)
		return models.Offer{}, false
	}
	return offer, true
}

// listingURL returns the mobile link for an API offer, synthesizing a
// desktop URL from its attributes when the response omits one.
func listingURL(o apiOffer, brand, model string) string {
	url := o.URL
	if url == "" {
		section := strings.ToLower(o.Section)
		if section == "" {
			section = "used"
		}
		url = fmt.Sprintf("https://auto.ru/cars/%s/sale/%s/%s/%s/",
			section,
			strings.ToLower(brand),
			strings.ReplaceAll(strings.ToLower(model), "_", "-"),
			o.ID)
	}
	return util.MobileURL(url)
}

// optionalInt maps zero and missing source values alike to absent.
func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
