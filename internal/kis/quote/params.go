package quote

import (
	"net/url"
	"strings"
)

// param is one query key/value pair. Each operation has its own encoder
// producing the fixed key set and order its upstream contract defines;
// encoders are independent on purpose so each query contract stays explicit.
type param struct {
	key   string
	value string
}

// encodeQuery builds a query string preserving insertion order. url.Values
// would sort keys alphabetically, so the pairs are encoded by hand.
func encodeQuery(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// adjustFlag maps the adjusted-price toggle to FID_ORG_ADJ_PRC:
// "0" requests adjusted prices, "1" requests raw prices.
func adjustFlag(adjusted bool) string {
	if adjusted {
		return "0"
	}
	return "1"
}
