package pricing

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// Exchange rate API for CNY to USD conversion
	exchangeRateURL = "https://open.er-api.com/v6/latest/CNY"
	// Default rate to use if the API call fails
	defaultCNYtoUSDRate = 0.14
	// How often to refresh the rate
	exchangeRateRefreshInterval = 1 * time.Hour
)

var (
	// Cache the exchange rate to avoid too many requests
	cachedCNYtoUSDRate      float64
	cachedCNYtoUSDRateMutex sync.RWMutex
	lastRateFetchTime       time.Time
)

type exchangeRateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// GetCNYtoUSDRate returns the current CNY to USD conversion rate. The rate
// is for display only: catalog prices stay in the provider's currency and
// cache keys are never currency-qualified.
func GetCNYtoUSDRate() float64 {
	cachedCNYtoUSDRateMutex.RLock()
	// Check if we have a recent cached rate
	if cachedCNYtoUSDRate > 0 && time.Since(lastRateFetchTime) < exchangeRateRefreshInterval {
		rate := cachedCNYtoUSDRate
		cachedCNYtoUSDRateMutex.RUnlock()
		return rate
	}
	cachedCNYtoUSDRateMutex.RUnlock()

	// Need to fetch a new rate
	cachedCNYtoUSDRateMutex.Lock()
	defer cachedCNYtoUSDRateMutex.Unlock()

	// Double-check in case another goroutine already updated while we were waiting for the lock
	if cachedCNYtoUSDRate > 0 && time.Since(lastRateFetchTime) < exchangeRateRefreshInterval {
		return cachedCNYtoUSDRate
	}

	rate, err := fetchCNYtoUSDRate()
	if err != nil {
		priceLogger.WithError(err).Warn("error fetching CNY to USD rate, using fallback")
		if cachedCNYtoUSDRate > 0 {
			// Keep using the old rate if available
			return cachedCNYtoUSDRate
		}
		return defaultCNYtoUSDRate
	}

	// Update cache
	cachedCNYtoUSDRate = rate
	lastRateFetchTime = time.Now()

	priceLogger.Infof("updated CNY to USD exchange rate: 1 CNY = %f USD", rate)
	return rate
}

// fetchCNYtoUSDRate fetches the current rate from the API
func fetchCNYtoUSDRate() (float64, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(exchangeRateURL)
	req.Header.SetMethod("GET")
	req.Header.Set("Accept", "application/json")

	if err := fasthttp.Do(req, resp); err != nil {
		return 0, fmt.Errorf("request to exchange rate API failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, fmt.Errorf("exchange rate API returned non-200 status code: %d", resp.StatusCode())
	}

	var parsed exchangeRateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse exchange rate API response: %w", err)
	}
	if parsed.Result != "success" {
		return 0, fmt.Errorf("exchange rate API returned result %q", parsed.Result)
	}

	rate, ok := parsed.Rates["USD"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("couldn't find USD rate in the response")
	}
	return rate, nil
}
