// Package price implements the external quote sources the price aggregator
// walks through in order.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kurooo23/AsiqTIX/ports"
)

const (
	userAgent      = "asiqtix-price/1.0"
	requestTimeout = 6 * time.Second
)

// jsonSource fetches one URL and extracts a price from its JSON body.
type jsonSource struct {
	name    string
	url     string
	client  *http.Client
	extract func(body []byte) (decimal.Decimal, error)
}

func (s *jsonSource) Name() string { return s.name }

func (s *jsonSource) Quote(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%s: HTTP %d", s.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", s.name, err)
	}

	p, err := s.extract(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", s.name, err)
	}
	if !p.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s: non-positive price", s.name)
	}
	return p, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	return decimal.NewFromString(s)
}

func binanceSource(client *http.Client, symbol string) ports.QuoteSource {
	return &jsonSource{
		name:   "binance:" + symbol,
		url:    "https://api.binance.com/api/v3/ticker/price?symbol=" + symbol,
		client: client,
		extract: func(body []byte) (decimal.Decimal, error) {
			var out struct {
				Price string `json:"price"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return decimal.Zero, err
			}
			return parsePrice(out.Price)
		},
	}
}

func okxSource(client *http.Client, instID string) ports.QuoteSource {
	return &jsonSource{
		name:   "okx:" + instID,
		url:    "https://www.okx.com/api/v5/market/ticker?instId=" + instID,
		client: client,
		extract: func(body []byte) (decimal.Decimal, error) {
			var out struct {
				Data []struct {
					Last string `json:"last"`
				} `json:"data"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return decimal.Zero, err
			}
			if len(out.Data) == 0 {
				return decimal.Zero, fmt.Errorf("empty data")
			}
			return parsePrice(out.Data[0].Last)
		},
	}
}

func bybitSource(client *http.Client, symbol string) ports.QuoteSource {
	return &jsonSource{
		name:   "bybit:" + symbol,
		url:    "https://api.bybit.com/v5/market/tickers?category=spot&symbol=" + symbol,
		client: client,
		extract: func(body []byte) (decimal.Decimal, error) {
			var out struct {
				Result struct {
					List []struct {
						LastPrice string `json:"lastPrice"`
					} `json:"list"`
				} `json:"result"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return decimal.Zero, err
			}
			if len(out.Result.List) == 0 {
				return decimal.Zero, fmt.Errorf("empty list")
			}
			return parsePrice(out.Result.List[0].LastPrice)
		},
	}
}

func gateSource(client *http.Client, pair string) ports.QuoteSource {
	return &jsonSource{
		name:   "gate:" + pair,
		url:    "https://api.gateio.ws/api/v4/spot/tickers?currency_pair=" + pair,
		client: client,
		extract: func(body []byte) (decimal.Decimal, error) {
			var out []struct {
				Last string `json:"last"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return decimal.Zero, err
			}
			if len(out) == 0 {
				return decimal.Zero, fmt.Errorf("empty tickers")
			}
			return parsePrice(out[0].Last)
		},
	}
}

func ratesFxSource(client *http.Client, name, url string) ports.QuoteSource {
	return &jsonSource{
		name:   name,
		url:    url,
		client: client,
		extract: func(body []byte) (decimal.Decimal, error) {
			var out struct {
				Rates map[string]float64 `json:"rates"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return decimal.Zero, err
			}
			v, ok := out.Rates["IDR"]
			if !ok || v <= 0 {
				return decimal.Zero, fmt.Errorf("no IDR rate")
			}
			return decimal.NewFromFloat(v), nil
		},
	}
}

// SpotSources returns the POL/USDT quote chain, POL symbols first with MATIC
// fallbacks for venues that still list the old ticker.
func SpotSources(client *http.Client) []ports.QuoteSource {
	if client == nil {
		client = http.DefaultClient
	}
	return []ports.QuoteSource{
		binanceSource(client, "POLUSDT"),
		binanceSource(client, "MATICUSDT"),
		okxSource(client, "POL-USDT"),
		okxSource(client, "MATIC-USDT"),
		bybitSource(client, "POLUSDT"),
		bybitSource(client, "MATICUSDT"),
		gateSource(client, "POL_USDT"),
		gateSource(client, "MATIC_USDT"),
	}
}

// FXSources returns the USD/IDR quote chain.
func FXSources(client *http.Client) []ports.QuoteSource {
	if client == nil {
		client = http.DefaultClient
	}
	return []ports.QuoteSource{
		ratesFxSource(client, "exchangerate.host", "https://api.exchangerate.host/latest?base=USD&symbols=IDR"),
		ratesFxSource(client, "frankfurter", "https://api.frankfurter.app/latest?from=USD&to=IDR"),
		ratesFxSource(client, "open.er-api", "https://open.er-api.com/v6/latest/USD"),
	}
}
