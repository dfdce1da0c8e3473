package quote

import (
	"context"
	"fmt"

	"kisopenapi/internal/kis"
)

const periodicPricePath = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"

// PeriodicPriceParams is the parameter set for the periodic chart inquiry
// (국내주식기간별시세, v1_국내주식-016).
type PeriodicPriceParams struct {
	Market    kis.MarketCode
	Shortcode string
	// StartDay and EndDay bound the range, formatted YYYYMMDD.
	StartDay string
	EndDay   string
	Period   kis.PeriodCode
	Adjusted bool
}

func (p PeriodicPriceParams) encode() []param {
	return []param{
		{"FID_COND_MRKT_DIV_CODE", string(p.Market)},
		{"FID_INPUT_ISCD", p.Shortcode},
		{"FID_INPUT_DATE_1", p.StartDay},
		{"FID_INPUT_DATE_2", p.EndDay},
		{"FID_PERIOD_DIV_CODE", string(p.Period)},
		{"FID_ORG_ADJ_PRC", adjustFlag(p.Adjusted)},
	}
}

// PeriodicPriceSummary is the output1 block: current state of the issue.
type PeriodicPriceSummary struct {
	Name           string `json:"hts_kor_isnm"`
	Shortcode      string `json:"stck_shrn_iscd"`
	Price          string `json:"stck_prpr"`
	PrevClose      string `json:"stck_prdy_clpr"`
	Change         string `json:"prdy_vrss"`
	ChangeSign     string `json:"prdy_vrss_sign"`
	ChangeRate     string `json:"prdy_ctrt"`
	Volume         string `json:"acml_vol"`
	Amount         string `json:"acml_tr_pbmn"`
	UpperLimit     string `json:"stck_mxpr"`
	LowerLimit     string `json:"stck_llam"`
	FaceValue      string `json:"stck_fcam"`
	ListedShares   string `json:"lstn_stcn"`
	Capitalization string `json:"cpfn"`
	PrevVolume     string `json:"prdy_vol"`
	YearHigh       string `json:"stck_dryy_hgpr"`
	YearLow        string `json:"stck_dryy_lwpr"`
}

// PeriodicPriceBar is one bar from the output2 block.
type PeriodicPriceBar struct {
	Date         string `json:"stck_bsop_date"`
	Close        string `json:"stck_clpr"`
	Open         string `json:"stck_oprc"`
	High         string `json:"stck_hgpr"`
	Low          string `json:"stck_lwpr"`
	Volume       string `json:"acml_vol"`
	Amount       string `json:"acml_tr_pbmn"`
	LockCode     string `json:"flng_cls_code"`
	SplitRate    string `json:"prtt_rate"`
	Modified     string `json:"mod_yn"`
	ChangeSign   string `json:"prdy_vrss_sign"`
	Change       string `json:"prdy_vrss"`
	RevalueIssue string `json:"revl_issu_reas"`
}

// PeriodicPriceResponse is the decoded periodic chart payload.
type PeriodicPriceResponse struct {
	ReturnCode  string               `json:"rt_cd"`
	MessageCode string               `json:"msg_cd"`
	Message     string               `json:"msg1"`
	Summary     PeriodicPriceSummary `json:"output1"`
	Output      []PeriodicPriceBar   `json:"output2"`
}

// PeriodicPrice fetches bars for one issue over an explicit date range.
func (c *Client) PeriodicPrice(ctx context.Context, market kis.MarketCode, shortcode, startDay, endDay string, period kis.PeriodCode, adjusted bool) (*PeriodicPriceResponse, error) {
	params := PeriodicPriceParams{
		Market:    market,
		Shortcode: shortcode,
		StartDay:  startDay,
		EndDay:    endDay,
		Period:    period,
		Adjusted:  adjusted,
	}
	url := fmt.Sprintf("%s%s?%s", c.baseURL, periodicPricePath, encodeQuery(params.encode()))

	var res PeriodicPriceResponse
	if err := c.getJSON(ctx, url, kis.TrIDPeriodicPrice, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
