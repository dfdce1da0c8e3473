package quote

import (
	"context"
	"fmt"

	"kisopenapi/internal/kis"
)

const dailyPricePath = "/uapi/domestic-stock/v1/quotations/inquire-daily-price"

// DailyPriceParams is the parameter set for the daily price inquiry
// (주식현재가 일자별, v1_국내주식-010).
type DailyPriceParams struct {
	// Market is the market-division code.
	Market kis.MarketCode
	// Shortcode is the 6-digit issue code, e.g. "005930".
	Shortcode string
	// Period selects the bar interval returned (up to 30 bars).
	Period kis.PeriodCode
	// Adjusted requests prices adjusted for corporate actions.
	Adjusted bool
}

func (p DailyPriceParams) encode() []param {
	return []param{
		{"FID_COND_MRKT_DIV_CODE", string(p.Market)},
		{"FID_INPUT_ISCD", p.Shortcode},
		{"FID_PERIOD_DIV_CODE", string(p.Period)},
		{"FID_ORG_ADJ_PRC", adjustFlag(p.Adjusted)},
	}
}

// DailyPriceBar is one daily/weekly/monthly bar from the daily price
// inquiry. Numeric fields are delivered as strings by the upstream.
type DailyPriceBar struct {
	Date            string `json:"stck_bsop_date"`
	Open            string `json:"stck_oprc"`
	High            string `json:"stck_hgpr"`
	Low             string `json:"stck_lwpr"`
	Close           string `json:"stck_clpr"`
	Volume          string `json:"acml_vol"`
	VolumeRate      string `json:"prdy_vrss_vol_rate"`
	Change          string `json:"prdy_vrss"`
	ChangeSign      string `json:"prdy_vrss_sign"`
	ChangeRate      string `json:"prdy_ctrt"`
	ForeignHoldRate string `json:"hts_frgn_ehrt"`
	ForeignNetBuy   string `json:"frgn_ntby_qty"`
	LockCode        string `json:"flng_cls_code"`
	SplitRate       string `json:"acml_prtt_rate"`
}

// DailyPriceResponse is the decoded daily price inquiry payload.
type DailyPriceResponse struct {
	ReturnCode  string          `json:"rt_cd"`
	MessageCode string          `json:"msg_cd"`
	Message     string          `json:"msg1"`
	Output      []DailyPriceBar `json:"output"`
}

// DailyPrice fetches up to 30 recent bars for one issue.
func (c *Client) DailyPrice(ctx context.Context, market kis.MarketCode, shortcode string, period kis.PeriodCode, adjusted bool) (*DailyPriceResponse, error) {
	params := DailyPriceParams{
		Market:    market,
		Shortcode: shortcode,
		Period:    period,
		Adjusted:  adjusted,
	}
	url := fmt.Sprintf("%s%s?%s", c.baseURL, dailyPricePath, encodeQuery(params.encode()))

	var res DailyPriceResponse
	if err := c.getJSON(ctx, url, kis.TrIDDailyPrice, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
