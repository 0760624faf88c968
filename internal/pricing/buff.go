package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"
)

const (
	buffSearchURL  = "https://buff.163.com/api/market/goods?game=csgo&page_num=1&search="
	buffCatalogURL = "https://buff.163.com/api/market/goods/all?game=csgo"

	buffUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	ErrNoExactMatch        = errors.New("no exact match on price provider")
	ErrProviderUnavailable = errors.New("price provider unavailable")
)

// BuffClient talks to the buff price provider. Prices come back in the
// provider's native currency (CNY).
type BuffClient struct {
	session string
}

func NewBuffClient(session string) *BuffClient {
	return &BuffClient{session: session}
}

type buffSearchResponse struct {
	Code string `json:"code"`
	Data struct {
		Items []struct {
			MarketHashName string `json:"market_hash_name"`
			SellMinPrice   string `json:"sell_min_price"`
			SellNum        int    `json:"sell_num"`
		} `json:"items"`
	} `json:"data"`
}

// SearchPrice resolves the minimum sell price for one market hash name via
// the provider's search endpoint. Only an exact name match counts; prefix
// and fuzzy hits from the search are discarded.
func (c *BuffClient) SearchPrice(marketHashName string) (float64, error) {
	body, err := c.get(buffSearchURL + url.QueryEscape(marketHashName))
	if err != nil {
		return 0, err
	}

	var parsed buffSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse provider search response: %w", err)
	}
	if parsed.Code != "OK" {
		return 0, fmt.Errorf("%w: provider code %s", ErrProviderUnavailable, parsed.Code)
	}

	for _, item := range parsed.Data.Items {
		if item.MarketHashName != marketHashName {
			continue
		}
		price, err := strconv.ParseFloat(item.SellMinPrice, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable sell price %q: %w", item.SellMinPrice, err)
		}
		return price, nil
	}
	return 0, ErrNoExactMatch
}

type buffCatalogResponse struct {
	Code string `json:"code"`
	Data struct {
		Items []struct {
			MarketHashName string   `json:"market_hash_name"`
			SalePrices     []string `json:"sale_prices"`
		} `json:"items"`
	} `json:"data"`
}

// FetchAllPrices pulls the provider's full catalog in one call and computes
// each item's minimum positive sale price across its listings. Items with no
// positive listing are skipped.
func (c *BuffClient) FetchAllPrices() (map[string]float64, error) {
	body, err := c.get(buffCatalogURL)
	if err != nil {
		return nil, err
	}

	var parsed buffCatalogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog response: %w", err)
	}
	if parsed.Code != "OK" {
		return nil, fmt.Errorf("%w: provider code %s", ErrProviderUnavailable, parsed.Code)
	}

	prices := make(map[string]float64, len(parsed.Data.Items))
	for _, item := range parsed.Data.Items {
		min := 0.0
		for _, raw := range item.SalePrices {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price <= 0 {
				continue
			}
			if min == 0 || price < min {
				min = price
			}
		}
		if min > 0 {
			prices[item.MarketHashName] = min
		}
	}
	return prices, nil
}

func (c *BuffClient) get(target string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod("GET")
	req.Header.Set("User-Agent", buffUserAgent)
	if c.session != "" {
		req.Header.SetCookie("session", c.session)
	}

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
