package floatsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/valyala/fasthttp"
)

const (
	primaryLookupURL   = "https://api.csfloat.com/?url="
	secondaryLookupURL = "https://api.csgofloat.com/?url="
)

var (
	ErrInvalidInspectLink = errors.New("invalid inspect link format")
	ErrLookupFailed       = errors.New("float lookup failed")
)

// Inspect links encode owner, asset and session token as S/A/D/M-prefixed
// numeric segments.
var inspectParamPattern = regexp.MustCompile(`(?i)[SADM]\d+`)

// ValidateInspectLink rejects links that don't carry the three parameter
// segments the providers need.
func ValidateInspectLink(inspectLink string) error {
	if len(inspectParamPattern.FindAllString(inspectLink, -1)) < 3 {
		return ErrInvalidInspectLink
	}
	return nil
}

// FloatInfo is the wear data a provider resolves for one inspect link.
type FloatInfo struct {
	FloatValue float64 `json:"floatValue"`
	PaintSeed  *int    `json:"paintSeed"`
	PaintIndex *int    `json:"paintIndex"`
	WearName   string  `json:"wearName"`
}

// Provider is one float-resolution backend. Providers form an ordered
// fallback chain; the first one returning a usable float wins.
type Provider interface {
	Name() string
	Lookup(inspectLink string) (*FloatInfo, error)
}

// httpProvider wraps a float API that takes the inspect link as a query
// parameter. apiKey is optional: the primary provider is tried authenticated
// first and once more without auth at the end of the chain.
type httpProvider struct {
	label   string
	baseURL string
	apiKey  string
}

func (p *httpProvider) Name() string { return p.label }

type lookupResponse struct {
	ItemInfo *struct {
		FloatValue float64 `json:"floatvalue"`
		PaintSeed  int     `json:"paintseed"`
		PaintIndex int     `json:"paintindex"`
		WearName   string  `json:"wear_name"`
	} `json:"iteminfo"`
}

func (p *httpProvider) Lookup(inspectLink string) (*FloatInfo, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.baseURL + url.QueryEscape(inspectLink))
	req.Header.SetMethod("GET")
	if p.apiKey != "" {
		req.Header.Set("Authorization", p.apiKey)
	}

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.label, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrLookupFailed, p.label, resp.StatusCode())
	}

	var parsed lookupResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", p.label, err)
	}
	if parsed.ItemInfo == nil || parsed.ItemInfo.FloatValue <= 0 {
		return nil, fmt.Errorf("%w: %s returned no float value", ErrLookupFailed, p.label)
	}

	info := &FloatInfo{
		FloatValue: parsed.ItemInfo.FloatValue,
		WearName:   parsed.ItemInfo.WearName,
	}
	if parsed.ItemInfo.PaintSeed != 0 {
		seed := parsed.ItemInfo.PaintSeed
		info.PaintSeed = &seed
	}
	if parsed.ItemInfo.PaintIndex != 0 {
		index := parsed.ItemInfo.PaintIndex
		info.PaintIndex = &index
	}
	return info, nil
}

// defaultProviders builds the standard chain: authenticated primary,
// public secondary, then the primary once more without auth. The last step
// exists because the primary's anonymous tier sometimes answers when the
// keyed tier is rate-limited.
func defaultProviders(primaryAPIKey string) []Provider {
	return []Provider{
		&httpProvider{label: "csfloat", baseURL: primaryLookupURL, apiKey: primaryAPIKey},
		&httpProvider{label: "csgofloat", baseURL: secondaryLookupURL},
		&httpProvider{label: "csfloat-anon", baseURL: primaryLookupURL},
	}
}
