// Package marketdata converts the string-typed upstream payloads into
// typed rows for presentation and further processing.
package marketdata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kisopenapi/internal/kis/quote"
)

// dateLayout is the upstream trading-date format.
const dateLayout = "20060102"

// Candle is one normalized daily/weekly/monthly bar.
type Candle struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// CandlesFromDailyPrice converts a daily price payload. Bars with an empty
// trading date are skipped; the upstream pads short histories with empty
// rows.
func CandlesFromDailyPrice(symbol string, res *quote.DailyPriceResponse) ([]Candle, error) {
	out := make([]Candle, 0, len(res.Output))
	for _, bar := range res.Output {
		if strings.TrimSpace(bar.Date) == "" {
			continue
		}
		c, err := newCandle(symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CandlesFromPeriodicPrice converts a periodic chart payload.
func CandlesFromPeriodicPrice(symbol string, res *quote.PeriodicPriceResponse) ([]Candle, error) {
	out := make([]Candle, 0, len(res.Output))
	for _, bar := range res.Output {
		if strings.TrimSpace(bar.Date) == "" {
			continue
		}
		c, err := newCandle(symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func newCandle(symbol, date, open, high, low, close_, volume string) (Candle, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return Candle{}, fmt.Errorf("parsing trading date %q: %w", date, err)
	}
	o, err := parsePrice(open, "open")
	if err != nil {
		return Candle{}, err
	}
	h, err := parsePrice(high, "high")
	if err != nil {
		return Candle{}, err
	}
	l, err := parsePrice(low, "low")
	if err != nil {
		return Candle{}, err
	}
	c, err := parsePrice(close_, "close")
	if err != nil {
		return Candle{}, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(volume), 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("parsing volume %q: %w", volume, err)
	}
	return Candle{Symbol: symbol, Date: d, Open: o, High: h, Low: l, Close: c, Volume: v}, nil
}

func parsePrice(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s price %q: %w", field, s, err)
	}
	return d, nil
}

// Merge collapses candles by (symbol, date); later input wins. Output is
// sorted by symbol, then date ascending.
func Merge(batches ...[]Candle) []Candle {
	type key struct {
		symbol string
		date   time.Time
	}
	latest := make(map[key]Candle)
	for _, batch := range batches {
		for _, c := range batch {
			latest[key{c.Symbol, c.Date}] = c
		}
	}
	out := make([]Candle, 0, len(latest))
	for _, c := range latest {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// RankRow is one normalized volume ranking entry.
type RankRow struct {
	Rank       int             `json:"rank"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ChangeRate decimal.Decimal `json:"change_rate"`
	Volume     int64           `json:"volume"`
}

// RowsFromVolumeRank converts a volume ranking payload, sorted by rank.
func RowsFromVolumeRank(res *quote.VolumeRankResponse) ([]RankRow, error) {
	out := make([]RankRow, 0, len(res.Output))
	for _, e := range res.Output {
		rank, err := strconv.Atoi(strings.TrimSpace(e.Rank))
		if err != nil {
			return nil, fmt.Errorf("parsing rank %q: %w", e.Rank, err)
		}
		price, err := parsePrice(e.Price, "current")
		if err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(e.ChangeRate))
		if err != nil {
			return nil, fmt.Errorf("parsing change rate %q: %w", e.ChangeRate, err)
		}
		volume, err := strconv.ParseInt(strings.TrimSpace(e.Volume), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing volume %q: %w", e.Volume, err)
		}
		out = append(out, RankRow{
			Rank:       rank,
			Symbol:     e.Shortcode,
			Name:       e.Name,
			Price:      price,
			ChangeRate: rate,
			Volume:     volume,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
