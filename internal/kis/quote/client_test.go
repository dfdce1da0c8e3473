package quote_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kisopenapi/internal/kis"
	"kisopenapi/internal/kis/quote"
)

// newCreds returns a mock credential provider handing out the fixed
// token/key/secret triple used across the tests.
func newCreds(ctrl *gomock.Controller, token, appKey, appSecret string) *MockCredentialProvider {
	creds := NewMockCredentialProvider(ctrl)
	creds.EXPECT().Token().Return(token, token != "").AnyTimes()
	creds.EXPECT().AppKey().Return(appKey).AnyTimes()
	creds.EXPECT().AppSecret().Return(appSecret).AnyTimes()
	return creds
}

// jsonResponse wraps a JSON payload into a 200 response.
func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	creds := newCreds(ctrl, "T", "K", "S")

	client, err := quote.NewClient(kis.Real, creds, kis.Account{Number: "12345678", ProductCode: "01"})
	require.NoError(t, err)
	require.NotNil(t, client)
	require.Equal(t, kis.Real, client.Environment())
}

func TestNewClient_NilCredentials(t *testing.T) {
	t.Parallel()

	client, err := quote.NewClient(kis.Real, nil, kis.Account{})
	require.Error(t, err)
	require.Nil(t, client)
}

func TestClient_EnvironmentSelectsHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		environment kis.Environment
		wantHost    string
	}{
		{name: "real", environment: kis.Real, wantHost: "openapi.koreainvestment.com:9443"},
		{name: "virtual", environment: kis.Virtual, wantHost: "openapivts.koreainvestment.com:29443"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			creds := newCreds(ctrl, "T", "K", "S")

			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					require.Equal(t, tt.wantHost, req.URL.Host)
					return jsonResponse(`{"rt_cd":"0","output":[]}`), nil
				}).
				Times(1)

			client, err := quote.NewClient(tt.environment, creds, kis.Account{}, quote.WithHTTPClient(httpClient))
			require.NoError(t, err)

			_, err = client.DailyPrice(context.Background(), kis.MarketKRX, "005930", kis.PeriodDay, true)
			require.NoError(t, err)
		})
	}
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	creds := newCreds(ctrl, "T", "K", "S")

	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "example.test:9443", req.URL.Host)
			return jsonResponse(`{"rt_cd":"0","output":[]}`), nil
		}).
		Times(1)

	client, err := quote.NewClient(kis.Real, creds, kis.Account{},
		quote.WithHTTPClient(httpClient),
		quote.WithBaseURL("https://example.test:9443"),
	)
	require.NoError(t, err)

	_, err = client.DailyPrice(context.Background(), kis.MarketKRX, "005930", kis.PeriodDay, true)
	require.NoError(t, err)
}
