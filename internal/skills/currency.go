package skills

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/themobileprof/omnibar/internal/eval"
	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/internal/rates"
	"github.com/themobileprof/omnibar/pkg/models"
)

// currencyPattern catches "100 usd to eur", "(100+50) $ to €",
// "convert 10 eur in gbp". Input is lowercased before matching. A currency
// token is either a 3-letter code or a single non-digit symbol.
var currencyPattern = regexp.MustCompile(`^\s*(?:convert|calculate)?\s*([\d.\s+*/()-]+)\s*([a-z]{3}|[^0-9\s()])(?:\s*(?:to|in|as)\s*([a-z]{3}|[^0-9\s()]))?\s*$`)

var threeLetters = regexp.MustCompile(`^[a-z]{3}$`)

// symbolToCode resolves single-character currency symbols, the only kind
// the pattern's token class admits. Inherently ambiguous symbols ($ shared
// by a dozen dollars, ¥ by JPY/CNY) carry explicit defaults.
var symbolToCode = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR",
	"₽": "RUB",
	"₩": "KRW",
	"₿": "BTC",
	"฿": "THB",
	"₺": "TRY",
	"₴": "UAH",
	"₦": "NGN",
	"₱": "PHP",
	"₫": "VND",
	"₪": "ILS",
	"₲": "PYG",
	"₡": "CRC",
}

// CurrencyData is the payload carried by a currency match. Result is nil
// when no fresh rate table was available at match time; Execute resolves
// it then.
type CurrencyData struct {
	Amount    float64
	From      string
	To        string
	Result    *float64
	Rate      float64
	FetchedAt int64
}

// CurrencySkill converts between currencies using a cached, TTL-bounded
// rate table. Matching is synchronous against the cache; a miss degrades
// to a pending preview and triggers a background refresh.
type CurrencySkill struct {
	rates     *rates.Service
	localizer interfaces.Localizer
}

// NewCurrencySkill creates the converter skill
func NewCurrencySkill(svc *rates.Service, localizer interfaces.Localizer) *CurrencySkill {
	return &CurrencySkill{rates: svc, localizer: localizer}
}

func (s *CurrencySkill) ID() string   { return "builtin-currency" }
func (s *CurrencySkill) Name() string { return "Currency Converter" }
func (s *CurrencySkill) Description() string {
	return "Convert between currencies (e.g. 10 usd to eur)"
}
func (s *CurrencySkill) Icon() string { return "💱" }

// Match recognizes conversion queries. Confidence is about pattern
// recognition, not data availability, so the score is 1.0 even when the
// rate table is still being fetched.
func (s *CurrencySkill) Match(query string) *models.SkillMatch {
	if query == "" {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(query))
	m := currencyPattern.FindStringSubmatch(q)
	if m == nil {
		return nil
	}

	amountExpr, fromRaw, toRaw := m[1], m[2], m[3]

	from := resolveCurrency(fromRaw)
	var to string
	if toRaw == "" {
		to = s.defaultTarget()
	} else {
		to = resolveCurrency(toRaw)
	}
	if from == "" || to == "" {
		return nil
	}

	amount, err := eval.Evaluate(amountExpr)
	if err != nil {
		return nil
	}

	data := CurrencyData{Amount: amount, From: from, To: to}

	if table, ok := s.rates.Fresh(); ok {
		if result, ok := table.Convert(amount, from, to); ok {
			data.Result = &result
			data.Rate = table.Rates[to] / table.Rates[from]
			data.FetchedAt = table.FetchedAt
			return &models.SkillMatch{
				Score:   1.0,
				Data:    data,
				Preview: fmt.Sprintf("%s %s = %.2f %s", FormatNumber(amount), from, result, to),
			}
		}
	}

	// No usable cache: answer later, warm the cache now
	s.rates.RefreshAsync()
	return &models.SkillMatch{
		Score:   1.0,
		Data:    data,
		Preview: fmt.Sprintf("Convert %s %s to %s...", FormatNumber(amount), from, to),
	}
}

// Execute returns the conversion formatted to two decimals, fetching rates
// first when the match carried no result.
func (s *CurrencySkill) Execute(ctx context.Context, data interface{}) (string, error) {
	cd, ok := data.(CurrencyData)
	if !ok {
		return "", fmt.Errorf("currency: unexpected data type %T", data)
	}

	if cd.Result != nil {
		return fmt.Sprintf("%.2f", *cd.Result), nil
	}

	table, err := s.rates.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	if _, ok := table.Rates[cd.From]; !ok {
		return "", UnsupportedCurrencyError{Code: cd.From}
	}
	if _, ok := table.Rates[cd.To]; !ok {
		return "", UnsupportedCurrencyError{Code: cd.To}
	}

	result, _ := table.Convert(cd.Amount, cd.From, cd.To)
	return fmt.Sprintf("%.2f", result), nil
}

// resolveCurrency maps a raw token (3-letter code or symbol) to a code,
// or "" when unresolvable.
func resolveCurrency(token string) string {
	if token == "" {
		return ""
	}
	if threeLetters.MatchString(token) {
		return strings.ToUpper(token)
	}
	if code, ok := symbolToCode[token]; ok {
		return code
	}
	return ""
}

// defaultTarget resolves the destination currency when the query omits
// one. Locale is the primary signal; timezone refines it when the locale
// gives nothing or only the generic USD default. A non-USD locale currency
// always wins over the timezone-derived one.
func (s *CurrencySkill) defaultTarget() string {
	var locale, tz string
	if s.localizer != nil {
		locale = s.localizer.LocaleCurrency()
		tz = s.localizer.TimezoneCurrency()
	}

	if tz != "" && (locale == "" || locale == "USD") {
		return tz
	}
	if locale != "" {
		return locale
	}
	return "USD"
}
