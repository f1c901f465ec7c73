package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrNoBrowser is returned when no Chromium binary can be located.
var ErrNoBrowser = errors.New("scanner: no chromium browser found")

// priceScale is the fixed-point factor Shopee uses for prices.
const priceScale = 100000

// Options configures the browser-backed scanner.
type Options struct {
	Headless    bool
	BrowserBin  string
	Proxy       string
	PageTimeout time.Duration
	Logger      *zap.Logger
}

// ShopeeScanner reads the storefront search API through a real browser so the
// requests carry browser cookies and fingerprints. Every region gets its own
// incognito context.
type ShopeeScanner struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	log      *zap.Logger
}

// NewShopeeScanner launches a browser. A missing binary or a failed launch is
// returned as an error so the loader can degrade to an absent scanner.
func NewShopeeScanner(ctx context.Context, opts Options) (*ShopeeScanner, error) {
	bin := strings.TrimSpace(opts.BrowserBin)
	if bin == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return nil, ErrNoBrowser
		}
		bin = found
	}
	l := launcher.New().Bin(bin).Headless(opts.Headless).Leakless(false)
	if p := strings.TrimSpace(opts.Proxy); p != "" {
		l = l.Proxy(p)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("scanner: launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("scanner: connect browser: %w", err)
	}
	timeout := opts.PageTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ShopeeScanner{launcher: l, browser: browser, timeout: timeout, log: log}, nil
}

// Scan searches each region in turn and concatenates the hits. A failing region
// aborts the scan; partial results are not returned.
func (s *ShopeeScanner) Scan(ctx context.Context, req Request) (Result, error) {
	var all []Product
	for _, code := range req.Regions {
		region, err := LookupRegion(code)
		if err != nil {
			return Result{}, err
		}
		products, err := s.scanRegion(ctx, region, req.Keyword, req.Limit)
		if err != nil {
			return Result{}, fmt.Errorf("scanner: %s: %w", region.Code, err)
		}
		s.log.Info("region scanned", zap.String("region", region.Code), zap.Int("products", len(products)))
		all = append(all, products...)
	}
	return Result{Products: all}, nil
}

func (s *ShopeeScanner) scanRegion(ctx context.Context, region Region, keyword string, limit int) ([]Product, error) {
	incognito, err := s.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{URL: SearchURL(region, keyword, limit)})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	page = page.Timeout(s.timeout)
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	body, err := page.Element("body")
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	text, err := body.Text()
	if err != nil {
		return nil, fmt.Errorf("read body text: %w", err)
	}
	return DecodeSearch([]byte(text), region, limit)
}

// Close shuts the browser down.
func (s *ShopeeScanner) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// SearchURL is the storefront search API endpoint for keyword.
func SearchURL(region Region, keyword string, limit int) string {
	q := url.Values{}
	q.Set("by", "relevancy")
	q.Set("keyword", keyword)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("newest", "0")
	q.Set("order", "desc")
	q.Set("page_type", "search")
	q.Set("scenario", "PAGE_GLOBAL_SEARCH")
	q.Set("version", "2")
	return "https://" + region.Host + "/api/v4/search/search_items?" + q.Encode()
}

type searchResponse struct {
	Error   int    `json:"error"`
	Message string `json:"error_msg"`
	Items   []struct {
		Basic searchItem `json:"item_basic"`
	} `json:"items"`
}

type searchItem struct {
	ItemID         int64  `json:"itemid"`
	ShopID         int64  `json:"shopid"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Currency       string `json:"currency"`
	Stock          int    `json:"stock"`
	Sold           int    `json:"sold"`
	HistoricalSold int    `json:"historical_sold"`
	Rating         struct {
		Star float64 `json:"rating_star"`
	} `json:"item_rating"`
}

// DecodeSearch converts a search API body into products, keeping at most limit.
func DecodeSearch(body []byte, region Region, limit int) ([]Product, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("search api error %d: %s", resp.Error, resp.Message)
	}
	out := make([]Product, 0, len(resp.Items))
	for _, it := range resp.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		b := it.Basic
		if strings.TrimSpace(b.Name) == "" {
			continue
		}
		sold := b.HistoricalSold
		if sold == 0 {
			sold = b.Sold
		}
		currency := b.Currency
		if currency == "" {
			currency = region.Currency
		}
		out = append(out, Product{
			Name:     b.Name,
			Price:    float64(b.Price) / priceScale,
			Sold:     sold,
			Stock:    b.Stock,
			Rating:   b.Rating.Star,
			Region:   region.Code,
			Currency: currency,
			URL:      fmt.Sprintf("https://%s/product/%d/%d", region.Host, b.ShopID, b.ItemID),
		})
	}
	return out, nil
}
