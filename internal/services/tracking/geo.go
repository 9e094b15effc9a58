package tracking

import (
	"net"
	"strings"
)

// staticGeo is a tiny prefix-based country lookup used when no geoip
// backend is configured. Best-effort: unknown and private addresses
// return an empty country.
type staticGeo struct{}

// prefixCountries covers a handful of well-known public resolver and
// cloud ranges, enough for coarse dashboard attribution in development.
var prefixCountries = map[string]string{
	"41.":    "NG",
	"102.":   "NG",
	"105.":   "NG",
	"197.":   "NG",
	"8.8.":   "US",
	"1.1.1.": "AU",
	"9.9.9.": "US",
}

func (staticGeo) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsPrivate() || parsed.IsLoopback() {
		return ""
	}
	for prefix, country := range prefixCountries {
		if strings.HasPrefix(ip, prefix) {
			return country
		}
	}
	return ""
}
