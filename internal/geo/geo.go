package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/voicearena/ttsbench/internal/cache"
)

const (
	lookupTimeout = 3 * time.Second
	cacheTTL      = 12 * time.Hour
)

// Location is the coarse position a vote gets tagged with. Latency to a
// vendor depends on where the caller sits, so leaderboard slices by
// country need this.
type Location struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
}

// Locator resolves an IP to a location using two public services, trying
// ipapi.co first and falling back to ip-api.com. Lookups are cached; a
// failed lookup yields the zero Location, never an error to the caller's
// hot path.
type Locator struct {
	client *http.Client
	cache  *cache.Cache
}

func NewLocator(c *cache.Cache) *Locator {
	return &Locator{
		client: &http.Client{Timeout: lookupTimeout},
		cache:  c,
	}
}

func (l *Locator) Lookup(ctx context.Context, ip string) Location {
	if ip == "" {
		return Location{}
	}

	key := "geo:" + ip
	if l.cache != nil {
		var cached Location
		if err := l.cache.Get(ctx, key, &cached); err == nil {
			return cached
		}
	}

	loc, err := l.lookupIPAPI(ctx, ip)
	if err != nil {
		loc, err = l.lookupIPAPICom(ctx, ip)
	}
	if err != nil {
		slog.Debug("geo lookup failed", "ip", ip, "error", err)
		return Location{}
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, loc, cacheTTL); err != nil {
			slog.Debug("geo cache write failed", "error", err)
		}
	}
	return loc
}

func (l *Locator) lookupIPAPI(ctx context.Context, ip string) (Location, error) {
	var body struct {
		Country     string `json:"country_name"`
		CountryCode string `json:"country_code"`
		Region      string `json:"region"`
		City        string `json:"city"`
		Error       bool   `json:"error"`
	}
	if err := l.fetch(ctx, fmt.Sprintf("https://ipapi.co/%s/json/", ip), &body); err != nil {
		return Location{}, err
	}
	if body.Error || body.Country == "" {
		return Location{}, fmt.Errorf("ipapi.co: no data for %s", ip)
	}
	return Location{Country: body.Country, CountryCode: body.CountryCode, Region: body.Region, City: body.City}, nil
}

func (l *Locator) lookupIPAPICom(ctx context.Context, ip string) (Location, error) {
	var body struct {
		Status      string `json:"status"`
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
		Region      string `json:"regionName"`
		City        string `json:"city"`
	}
	if err := l.fetch(ctx, fmt.Sprintf("http://ip-api.com/json/%s", ip), &body); err != nil {
		return Location{}, err
	}
	if body.Status != "success" {
		return Location{}, fmt.Errorf("ip-api.com: no data for %s", ip)
	}
	return Location{Country: body.Country, CountryCode: body.CountryCode, Region: body.Region, City: body.City}, nil
}

func (l *Locator) fetch(ctx context.Context, url string, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
