package kis

import "fmt"

// Environment selects which upstream deployment requests are sent to.
// It is fixed at client construction time.
type Environment string

const (
	// Real is the production trading environment.
	Real Environment = "real"
	// Virtual is the simulated (모의투자) trading environment.
	Virtual Environment = "virtual"
)

const (
	// RealBaseURL is the production endpoint host.
	RealBaseURL = "https://openapi.koreainvestment.com:9443"
	// VirtualBaseURL is the simulation endpoint host.
	VirtualBaseURL = "https://openapivts.koreainvestment.com:29443"
)

// BaseURL returns the endpoint host for the environment.
func (e Environment) BaseURL() string {
	if e == Virtual {
		return VirtualBaseURL
	}
	return RealBaseURL
}

// ParseEnvironment converts a config string into an Environment.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case Real:
		return Real, nil
	case Virtual:
		return Virtual, nil
	}
	return "", fmt.Errorf("unknown environment %q", s)
}

// MarketCode is the market-division query value (FID_COND_MRKT_DIV_CODE).
type MarketCode string

const (
	MarketKRX     MarketCode = "J"  // KRX
	MarketNXT     MarketCode = "NX" // NXT
	MarketUnified MarketCode = "UN" // KRX + NXT combined
)

// PeriodCode is the chart period query value (FID_PERIOD_DIV_CODE).
type PeriodCode string

const (
	PeriodDay   PeriodCode = "D"
	PeriodWeek  PeriodCode = "W"
	PeriodMonth PeriodCode = "M"
	PeriodYear  PeriodCode = "Y"
)

// TrID identifies the upstream operation. It is sent verbatim as the tr_id
// header and maps 1:1 to the operation invoked.
type TrID string

const (
	TrIDDailyPrice    TrID = "FHKST01010400"
	TrIDPeriodicPrice TrID = "FHKST03010100"
	TrIDVolumeRank    TrID = "FHPST01710000"
)

// Account identifies the brokerage account a client is constructed for.
// The quotation endpoints do not read it, but order endpoints do, so it is
// part of client construction.
type Account struct {
	// Number is the 8-digit account number (CANO).
	Number string
	// ProductCode is the 2-digit account product code (ACNT_PRDT_CD).
	ProductCode string
}
