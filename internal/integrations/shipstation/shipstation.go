// internal/integrations/shipstation/shipstation.go
package shipstation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bartek5186/ss2pick/internal/integrations"
	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://ssapi.shipstation.com"

const (
	maxAttempts   = 3
	maxRetryAfter = 60 * time.Second
)

type Config struct {
	BaseURL           string `json:"base_url"`
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	PageSize          int    `json:"page_size"`           // max 500
	RequestsPerMinute int    `json:"requests_per_minute"` // limit API: 40/min
	TimeoutSeconds    int    `json:"timeout_seconds"`
}

type Client struct {
	log     zerolog.Logger
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func New(log zerolog.Logger, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 500 {
		cfg.PageSize = 500
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 40
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &Client{
		log:     log,
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.RequestsPerMinute),
	}
}

func (c *Client) Name() string { return "shipstation" }

func (c *Client) Refresh(ctx context.Context, storeIDs []string) error {
	for _, id := range storeIDs {
		q := url.Values{}
		q.Set("storeId", id)

		var resp refreshResponse
		if err := c.do(ctx, http.MethodPost, "/stores/refreshstore", q, &resp); err != nil {
			return fmt.Errorf("%w: refresh store %s: %v", integrations.ErrSourceUnavailable, id, err)
		}
		if !resp.Success {
			return fmt.Errorf("%w: refresh store %s: %s", integrations.ErrSourceUnavailable, id, resp.Message)
		}
		c.log.Info().Str("store_id", id).Msg("store refresh requested")
	}
	return nil
}

func (c *Client) AwaitingShipment(ctx context.Context, storeID string) ([]model.Order, error) {
	var out []model.Order
	page := 1

	for {
		q := url.Values{}
		q.Set("orderStatus", "awaiting_shipment")
		q.Set("storeId", storeID)
		q.Set("sortBy", "OrderDate")
		q.Set("sortDir", "DESC")
		q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
		q.Set("page", strconv.Itoa(page))

		var p ordersPage
		if err := c.do(ctx, http.MethodGet, "/orders", q, &p); err != nil {
			return nil, fmt.Errorf("%w: orders store %s page %d: %v", integrations.ErrSourceUnavailable, storeID, page, err)
		}

		for _, o := range p.Orders {
			mo, err := toModel(o)
			if err != nil {
				return nil, fmt.Errorf("%w: store %s: %v", integrations.ErrSourceUnavailable, storeID, err)
			}
			out = append(out, mo)
		}

		c.log.Debug().
			Str("store_id", storeID).
			Int("page", page).
			Int("pages", p.Pages).
			Int("orders", len(p.Orders)).
			Msg("orders page fetched")

		if page >= p.Pages || len(p.Orders) == 0 {
			break
		}
		page++
	}
	return out, nil
}

// DecodeOrders – odpowiedź GET /orders zapisana do pliku (eksport, dane testowe)
func DecodeOrders(r io.Reader) ([]model.Order, error) {
	var p ordersPage
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := make([]model.Order, 0, len(p.Orders))
	for _, o := range p.Orders {
		mo, err := toModel(o)
		if err != nil {
			return nil, err
		}
		out = append(out, mo)
	}
	return out, nil
}

func toModel(o ssOrder) (model.Order, error) {
	date, err := parseOrderDate(o.OrderDate)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %s: %w", o.OrderNumber, err)
	}
	mo := model.Order{
		Number:   o.OrderNumber,
		Customer: o.BillTo.Name,
		Date:     date,
		Items:    make([]model.Item, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		mo.Items = append(mo.Items, model.Item{SKU: strings.TrimSpace(it.SKU), Name: it.Name, Quantity: it.Quantity})
	}
	return mo, nil
}

// 2015-06-29T08:46:27.0000000 -> ucinamy ułamek sekund
func parseOrderDate(s string) (time.Time, error) {
	s, _, _ = strings.Cut(s, ".")
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, v any) error {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + path
	base.RawQuery = q.Encode()

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, base.String(), nil)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxAttempts {
			wait := retryAfter(resp.Header)
			resp.Body.Close()
			c.log.Warn().Str("path", path).Dur("wait", wait).Int("attempt", attempt).Msg("rate limited, retrying")
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		err = decode(resp, v)
		resp.Body.Close()
		return err
	}
}

func decode(resp *http.Response, v any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	// odpowiedź bywa w innym kodowaniu niż utf-8 (nazwy klientów)
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("charset: %w", err)
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// X-Rate-Limit-Reset: sekundy do odnowienia limitu
func retryAfter(h http.Header) time.Duration {
	for _, k := range []string{"X-Rate-Limit-Reset", "Retry-After"} {
		if s := h.Get(k); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				return min(time.Duration(n)*time.Second, maxRetryAfter)
			}
		}
	}
	return time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func factory(log zerolog.Logger, raw json.RawMessage) (integrations.Source, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return New(log, cfg), nil
}

func init() {
	integrations.Register("shipstation", factory)
}
