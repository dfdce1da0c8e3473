package quote_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kisopenapi/internal/kis"
	"kisopenapi/internal/kis/quote"
)

const periodicPriceBody = `{
	"rt_cd": "0",
	"msg_cd": "MCA00000",
	"msg1": "정상처리 되었습니다.",
	"output1": {
		"hts_kor_isnm": "삼성전자",
		"stck_shrn_iscd": "005930",
		"stck_prpr": "79600",
		"prdy_vrss": "1100",
		"prdy_vrss_sign": "2",
		"acml_vol": "17142847"
	},
	"output2": [
		{
			"stck_bsop_date": "20240105",
			"stck_clpr": "76600",
			"stck_oprc": "76700",
			"stck_hgpr": "77100",
			"stck_lwpr": "76400",
			"acml_vol": "11304316",
			"mod_yn": "N"
		}
	]
}`

func TestPeriodicPrice(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	creds := newCreds(ctrl, "T", "K", "S")

	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice", req.URL.Path)
			require.Equal(t, "FHKST03010100", req.Header.Get("tr_id"))

			q := req.URL.Query()
			require.Equal(t, "J", q.Get("FID_COND_MRKT_DIV_CODE"))
			require.Equal(t, "005930", q.Get("FID_INPUT_ISCD"))
			require.Equal(t, "20240101", q.Get("FID_INPUT_DATE_1"))
			require.Equal(t, "20240131", q.Get("FID_INPUT_DATE_2"))
			require.Equal(t, "D", q.Get("FID_PERIOD_DIV_CODE"))
			require.Equal(t, "0", q.Get("FID_ORG_ADJ_PRC"))

			return jsonResponse(periodicPriceBody), nil
		}).
		Times(1)

	client, err := quote.NewClient(kis.Real, creds, kis.Account{}, quote.WithHTTPClient(httpClient))
	require.NoError(t, err)

	res, err := client.PeriodicPrice(context.Background(), kis.MarketKRX, "005930", "20240101", "20240131", kis.PeriodDay, true)
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Equal(t, "삼성전자", res.Summary.Name)
	require.Equal(t, "79600", res.Summary.Price)
	require.Len(t, res.Output, 1)
	require.Equal(t, "20240105", res.Output[0].Date)
	require.Equal(t, "76600", res.Output[0].Close)
}

func TestPeriodicPrice_QueryRoundTrip(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	creds := newCreds(ctrl, "T", "K", "S")

	wantKeys := []string{
		"FID_COND_MRKT_DIV_CODE",
		"FID_INPUT_ISCD",
		"FID_INPUT_DATE_1",
		"FID_INPUT_DATE_2",
		"FID_PERIOD_DIV_CODE",
		"FID_ORG_ADJ_PRC",
	}

	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			parsed, err := url.ParseQuery(req.URL.RawQuery)
			require.NoError(t, err)
			require.Len(t, parsed, len(wantKeys))
			for _, key := range wantKeys {
				require.Lenf(t, parsed[key], 1, "expected key %s exactly once", key)
			}
			require.Equal(t, "M", parsed.Get("FID_PERIOD_DIV_CODE"))
			require.Equal(t, "1", parsed.Get("FID_ORG_ADJ_PRC"))
			return jsonResponse(`{"rt_cd":"0","output1":{},"output2":[]}`), nil
		}).
		Times(1)

	client, err := quote.NewClient(kis.Virtual, creds, kis.Account{}, quote.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.PeriodicPrice(context.Background(), kis.MarketKRX, "000660", "20230101", "20231231", kis.PeriodMonth, false)
	require.NoError(t, err)
}

func TestPeriodicPrice_NoToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	creds := newCreds(ctrl, "", "K", "S")

	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	client, err := quote.NewClient(kis.Real, creds, kis.Account{}, quote.WithHTTPClient(httpClient))
	require.NoError(t, err)

	res, err := client.PeriodicPrice(context.Background(), kis.MarketKRX, "005930", "20240101", "20240131", kis.PeriodDay, true)
	require.ErrorIs(t, err, quote.ErrTokenUnavailable)
	require.Nil(t, res)
}
