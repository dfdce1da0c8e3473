package quote

import (
	"context"
	"fmt"

	"kisopenapi/internal/kis"
)

const volumeRankPath = "/uapi/domestic-stock/v1/quotations/volume-rank"

// VolumeRankParams is the parameter set for the volume ranking inquiry
// (거래량순위, v1_국내주식-047). All fields are sent verbatim; there are no
// implicit defaults for required fields.
type VolumeRankParams struct {
	Market kis.MarketCode // FID_COND_MRKT_DIV_CODE
	// ScreenCode is the screening division, "20171" for this inquiry.
	ScreenCode string // FID_COND_SCR_DIV_CODE
	// InputCode narrows to one issue; "0000" ranks the whole market.
	InputCode string // FID_INPUT_ISCD
	// Division selects the ranking basis (0 whole, 1 common, 2 preferred).
	Division string // FID_DIV_CLS_CODE
	// Belong selects the volume classification (0 average volume, 1 rise
	// rate, 2 average turnover, 3 amount, 4 amount turnover).
	Belong string // FID_BLNG_CLS_CODE
	// Target and TargetExclude are 9-digit inclusion/exclusion masks.
	Target        string // FID_TRGT_CLS_CODE
	TargetExclude string // FID_TRGT_EXLS_CLS_CODE
	// PriceMin, PriceMax and VolumeMin filter candidates; empty means
	// unbounded.
	PriceMin  string // FID_INPUT_PRICE_1
	PriceMax  string // FID_INPUT_PRICE_2
	VolumeMin string // FID_VOL_CNT
	// Date is reserved by the upstream and normally empty.
	Date string // FID_INPUT_DATE_1
}

func (p VolumeRankParams) encode() []param {
	return []param{
		{"FID_COND_MRKT_DIV_CODE", string(p.Market)},
		{"FID_COND_SCR_DIV_CODE", p.ScreenCode},
		{"FID_INPUT_ISCD", p.InputCode},
		{"FID_DIV_CLS_CODE", p.Division},
		{"FID_BLNG_CLS_CODE", p.Belong},
		{"FID_TRGT_CLS_CODE", p.Target},
		{"FID_TRGT_EXLS_CLS_CODE", p.TargetExclude},
		{"FID_INPUT_PRICE_1", p.PriceMin},
		{"FID_INPUT_PRICE_2", p.PriceMax},
		{"FID_VOL_CNT", p.VolumeMin},
		{"FID_INPUT_DATE_1", p.Date},
	}
}

// VolumeRankEntry is one ranked issue.
type VolumeRankEntry struct {
	Name           string `json:"hts_kor_isnm"`
	Shortcode      string `json:"mksc_shrn_iscd"`
	Rank           string `json:"data_rank"`
	Price          string `json:"stck_prpr"`
	ChangeSign     string `json:"prdy_vrss_sign"`
	Change         string `json:"prdy_vrss"`
	ChangeRate     string `json:"prdy_ctrt"`
	Volume         string `json:"acml_vol"`
	PrevVolume     string `json:"prdy_vol"`
	ListedShares   string `json:"lstn_stcn"`
	AverageVolume  string `json:"avrg_vol"`
	PriceVsRate    string `json:"n_befr_clpr_vrss_prpr_rate"`
	VolumeIncrease string `json:"vol_inrt"`
	VolumeTurnover string `json:"vol_tnrt"`
	NDayTurnover   string `json:"nday_vol_tnrt"`
	AverageAmount  string `json:"avrg_tr_pbmn"`
	AmountTurnover string `json:"tr_pbmn_tnrt"`
	NDayAmountTurn string `json:"nday_tr_pbmn_tnrt"`
	Amount         string `json:"acml_tr_pbmn"`
}

// VolumeRankResponse is the decoded volume ranking payload.
type VolumeRankResponse struct {
	ReturnCode  string            `json:"rt_cd"`
	MessageCode string            `json:"msg_cd"`
	Message     string            `json:"msg1"`
	Output      []VolumeRankEntry `json:"output"`
}

// VolumeRank fetches the volume ranking. The upstream offers no simulation
// variant for this inquiry, so the request always targets the production
// host regardless of the client's configured environment.
func (c *Client) VolumeRank(ctx context.Context, params VolumeRankParams) (*VolumeRankResponse, error) {
	url := fmt.Sprintf("%s%s?%s", kis.RealBaseURL, volumeRankPath, encodeQuery(params.encode()))

	var res VolumeRankResponse
	if err := c.getJSON(ctx, url, kis.TrIDVolumeRank, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
