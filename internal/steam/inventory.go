package steam

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mswatii/cs2-vault/internal/logger"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/valyala/fasthttp"
)

const (
	inventoryURLFormat = "https://steamcommunity.com/inventory/%s/730/2?l=english&count=5000"
	playerSummariesURL = "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	ErrInventoryUnavailable = errors.New("unable to fetch inventory from Steam")
	ErrPrivateInventory     = errors.New("inventory is private")
)

var inventoryLogger = logger.WithContext("steam")

// transport is one way of reaching the Steam inventory endpoint. Transports
// are tried in order; the first success wins.
type transport interface {
	name() string
	attempt(steamID string) ([]byte, int, error)
}

// directTransport hits steamcommunity.com straight. Frequently blocked
// depending on the network the server runs from, hence the proxy fallbacks.
type directTransport struct{}

func (directTransport) name() string { return "direct" }

func (directTransport) attempt(steamID string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf(inventoryURLFormat, steamID))
	req.Header.SetMethod("GET")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://steamcommunity.com/")
	req.Header.Set("Origin", "https://steamcommunity.com")

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, 0, fmt.Errorf("direct request failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, resp.StatusCode(), fmt.Errorf("steam returned %d", resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, resp.StatusCode(), nil
}

// proxyTransport wraps the inventory URL in a public relay service. The
// relays have failure modes independent of the direct route and of each
// other, which is the whole point of trying several.
type proxyTransport struct {
	label string
	wrap  func(target string) string
}

func (p proxyTransport) name() string { return p.label }

func (p proxyTransport) attempt(steamID string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	target := fmt.Sprintf(inventoryURLFormat, steamID)
	req.SetRequestURI(p.wrap(target))
	req.Header.SetMethod("GET")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, 0, fmt.Errorf("proxy %s request failed: %w", p.label, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, resp.StatusCode(), fmt.Errorf("proxy %s returned %d", p.label, resp.StatusCode())
	}

	// Relays return the upstream body as text; anything that is not a JSON
	// object is a relay error page.
	body := resp.Body()
	if len(body) == 0 || !strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		return nil, resp.StatusCode(), fmt.Errorf("proxy %s returned non-JSON body", p.label)
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out, resp.StatusCode(), nil
}

func defaultTransports() []transport {
	return []transport{
		directTransport{},
		proxyTransport{
			label: "allorigins",
			wrap: func(target string) string {
				return "https://api.allorigins.win/raw?url=" + url.QueryEscape(target)
			},
		},
		proxyTransport{
			label: "codetabs",
			wrap: func(target string) string {
				return "https://api.codetabs.com/v1/proxy?quest=" + target
			},
		},
	}
}

// Fetcher retrieves raw inventories. Every call is live; caching happens in
// the catalog, not here.
type Fetcher struct {
	apiKey     string
	transports []transport
}

// NewFetcher builds a fetcher with the default transport chain. apiKey is
// optional; without it the identity validation step is skipped.
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{apiKey: apiKey, transports: defaultTransports()}
}

// Fetch retrieves the asset/description set for a SteamID64, trying each
// transport in order. A 401/403 seen anywhere in the chain is surfaced as
// ErrPrivateInventory once every transport has been exhausted.
func (f *Fetcher) Fetch(steamID string) (*models.SteamInventoryResponse, error) {
	sawForbidden := false

	for _, t := range f.transports {
		body, status, err := t.attempt(steamID)
		if err != nil {
			if status == fasthttp.StatusForbidden || status == fasthttp.StatusUnauthorized {
				sawForbidden = true
			}
			inventoryLogger.WithError(err).Debugf("transport %s failed", t.name())
			continue
		}

		var inv models.SteamInventoryResponse
		if err := json.Unmarshal(body, &inv); err != nil {
			inventoryLogger.WithError(err).Debugf("transport %s returned unparseable body", t.name())
			continue
		}

		inventoryLogger.Infof("fetched inventory via %s: %d assets", t.name(), len(inv.Assets))
		return &inv, nil
	}

	if sawForbidden {
		return nil, ErrPrivateInventory
	}
	return nil, ErrInventoryUnavailable
}

// ValidateSteamID checks that the id belongs to a real account via the Steam
// Web API. The check is best-effort: no API key, a failed call or an
// unparseable response all count as valid. Only a definitive empty player
// list rejects.
func (f *Fetcher) ValidateSteamID(steamID string) bool {
	if f.apiKey == "" {
		return true
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s?key=%s&steamids=%s", playerSummariesURL, f.apiKey, steamID))
	req.Header.SetMethod("GET")

	if err := fasthttp.Do(req, resp); err != nil {
		inventoryLogger.WithError(err).Debug("steam id validation call failed, treating as valid")
		return true
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return true
	}

	var payload struct {
		Response struct {
			Players []json.RawMessage `json:"players"`
		} `json:"response"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return true
	}
	return len(payload.Response.Players) > 0
}
