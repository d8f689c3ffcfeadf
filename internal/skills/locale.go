package skills

import (
	"os"
	"strings"

	"github.com/themobileprof/omnibar/internal/interfaces"
)

// EnvLocalizer infers currency defaults from the process environment:
// locale variables for the region, TZ or /etc/localtime for the timezone.
type EnvLocalizer struct{}

// Ensure EnvLocalizer implements the Localizer port
var _ interfaces.Localizer = EnvLocalizer{}

// regionCurrency maps ISO country codes to their currency
var regionCurrency = map[string]string{
	"US": "USD", "GB": "GBP", "DE": "EUR", "FR": "EUR", "ES": "EUR",
	"IT": "EUR", "NL": "EUR", "PT": "EUR", "IE": "EUR", "AT": "EUR",
	"BE": "EUR", "FI": "EUR", "GR": "EUR", "JP": "JPY", "CN": "CNY",
	"IN": "INR", "RU": "RUB", "KR": "KRW", "BR": "BRL", "MX": "MXN",
	"CA": "CAD", "AU": "AUD", "NZ": "NZD", "CH": "CHF", "SE": "SEK",
	"NO": "NOK", "DK": "DKK", "PL": "PLN", "CZ": "CZK", "HU": "HUF",
	"TR": "TRY", "UA": "UAH", "IL": "ILS", "SA": "SAR", "AE": "AED",
	"SG": "SGD", "HK": "HKD", "TW": "TWD", "TH": "THB", "VN": "VND",
	"PH": "PHP", "ID": "IDR", "MY": "MYR", "ZA": "ZAR", "NG": "NGN",
	"EG": "EGP", "AR": "ARS", "CL": "CLP", "CO": "COP", "PE": "PEN",
}

// tzCountry maps IANA timezone names to ISO country codes. Covers the
// common single-country zones; ambiguous or unknown zones resolve to "".
var tzCountry = map[string]string{
	"America/New_York":     "US",
	"America/Chicago":      "US",
	"America/Denver":       "US",
	"America/Los_Angeles":  "US",
	"America/Toronto":      "CA",
	"America/Vancouver":    "CA",
	"America/Mexico_City":  "MX",
	"America/Sao_Paulo":    "BR",
	"America/Buenos_Aires": "AR",
	"America/Bogota":       "CO",
	"America/Lima":         "PE",
	"America/Santiago":     "CL",
	"Europe/London":        "GB",
	"Europe/Dublin":        "IE",
	"Europe/Paris":         "FR",
	"Europe/Berlin":        "DE",
	"Europe/Madrid":        "ES",
	"Europe/Rome":          "IT",
	"Europe/Amsterdam":     "NL",
	"Europe/Lisbon":        "PT",
	"Europe/Vienna":        "AT",
	"Europe/Brussels":      "BE",
	"Europe/Helsinki":      "FI",
	"Europe/Athens":        "GR",
	"Europe/Stockholm":     "SE",
	"Europe/Oslo":          "NO",
	"Europe/Copenhagen":    "DK",
	"Europe/Warsaw":        "PL",
	"Europe/Prague":        "CZ",
	"Europe/Budapest":      "HU",
	"Europe/Zurich":        "CH",
	"Europe/Moscow":        "RU",
	"Europe/Istanbul":      "TR",
	"Europe/Kyiv":          "UA",
	"Asia/Tokyo":           "JP",
	"Asia/Shanghai":        "CN",
	"Asia/Hong_Kong":       "HK",
	"Asia/Taipei":          "TW",
	"Asia/Seoul":           "KR",
	"Asia/Kolkata":         "IN",
	"Asia/Singapore":       "SG",
	"Asia/Bangkok":         "TH",
	"Asia/Jakarta":         "ID",
	"Asia/Manila":          "PH",
	"Asia/Kuala_Lumpur":    "MY",
	"Asia/Ho_Chi_Minh":     "VN",
	"Asia/Jerusalem":       "IL",
	"Asia/Riyadh":          "SA",
	"Asia/Dubai":           "AE",
	"Africa/Johannesburg":  "ZA",
	"Africa/Lagos":         "NG",
	"Africa/Cairo":         "EG",
	"Australia/Sydney":     "AU",
	"Australia/Melbourne":  "AU",
	"Pacific/Auckland":     "NZ",
}

// LocaleCurrency derives a currency from LC_MONETARY/LC_ALL/LANG
// ("en_US.UTF-8" -> US -> USD), or "" when no region resolves.
func (EnvLocalizer) LocaleCurrency() string {
	for _, key := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(key)
		if locale == "" || locale == "C" || locale == "POSIX" {
			continue
		}
		if region := localeRegion(locale); region != "" {
			if currency, ok := regionCurrency[region]; ok {
				return currency
			}
		}
	}
	return ""
}

// TimezoneCurrency derives a currency from the system timezone's country,
// or "" when the zone is unknown or ambiguous.
func (EnvLocalizer) TimezoneCurrency() string {
	zone := os.Getenv("TZ")
	if zone == "" {
		// /etc/localtime is a symlink into the zoneinfo database on
		// most Linux systems
		if target, err := os.Readlink("/etc/localtime"); err == nil {
			if idx := strings.Index(target, "zoneinfo/"); idx >= 0 {
				zone = target[idx+len("zoneinfo/"):]
			}
		}
	}
	if zone == "" {
		return ""
	}
	country, ok := tzCountry[zone]
	if !ok {
		return ""
	}
	return regionCurrency[country]
}

// localeRegion extracts the region from a locale string like
// "en_US.UTF-8" or "pt-BR".
func localeRegion(locale string) string {
	locale = strings.SplitN(locale, ".", 2)[0]
	locale = strings.SplitN(locale, "@", 2)[0]
	sep := strings.IndexAny(locale, "_-")
	if sep < 0 {
		return ""
	}
	region := strings.ToUpper(locale[sep+1:])
	if len(region) != 2 {
		return ""
	}
	return region
}
