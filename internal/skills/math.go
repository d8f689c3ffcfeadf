package skills

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/themobileprof/omnibar/internal/eval"
	"github.com/themobileprof/omnibar/pkg/models"
)

const (
	// mathDirectScore is the confidence for plain arithmetic input
	mathDirectScore = 1.0
	// mathNLScore is the confidence for natural-language phrasings; kept
	// strictly below direct so literal arithmetic always wins ties
	mathNLScore = 0.95
)

var (
	// directExpr restricts direct mode to digits, dots, whitespace,
	// parens and the operator set
	directExpr = regexp.MustCompile(`^[\d.\s()+\-*/%^]+$`)
	// hasOperator rejects bare numbers so plain numeric input (phone
	// numbers, IDs) never matches
	hasOperator = regexp.MustCompile(`[+\-*/%^]`)
	// commandPrefix detects command-word phrasings that give "and" a
	// specific operator meaning
	commandPrefix  = regexp.MustCompile(`^(sum|add|product|multiply|difference|subtract|divide|quotient)`)
	productWord    = regexp.MustCompile(`^(product|multiply)`)
	quotientWord   = regexp.MustCompile(`^(divide|quotient)`)
	differenceWord = regexp.MustCompile(`^(difference|subtract)`)
	andWord        = regexp.MustCompile(`\band\b`)
	fillerPrefix   = regexp.MustCompile(`^(calculate|what is|compute)\s+`)
	// looksLikeMath is the post-rewrite sanity check: a digit plus an
	// operator, function letter, or paren
	hasDigit      = regexp.MustCompile(`[\d]`)
	looksLikeMath = regexp.MustCompile(`[+\-*/^a-z(]`)
)

// phraseRewrites maps spoken phrases to operators; applied in order, so
// longer phrases must come before their substrings.
var phraseRewrites = []struct {
	from *regexp.Regexp
	to   string
}{
	{regexp.MustCompile(`plus`), "+"},
	{regexp.MustCompile(`minus`), "-"},
	{regexp.MustCompile(`times`), "*"},
	{regexp.MustCompile(`divided by`), "/"},
	{regexp.MustCompile(`multiplied by`), "*"},
	{regexp.MustCompile(`sum of`), ""},
	{regexp.MustCompile(`product of`), ""},
	{regexp.MustCompile(`difference of`), ""},
	{regexp.MustCompile(`square root of`), "sqrt"},
	{regexp.MustCompile(`power of`), "^"},
	{andWord, "+"},
}

// MathData is the payload carried by a math match
type MathData struct {
	Expression string
	Result     float64
}

// MathSkill evaluates arithmetic queries, both literal ("2+2") and
// natural-language ("sum of 5 and 10"). Stateless.
type MathSkill struct{}

// NewMathSkill creates the calculator skill
func NewMathSkill() *MathSkill {
	return &MathSkill{}
}

func (s *MathSkill) ID() string          { return "builtin-math" }
func (s *MathSkill) Name() string        { return "Calculator" }
func (s *MathSkill) Description() string { return "Calculate math expressions" }
func (s *MathSkill) Icon() string        { return "🧮" }

// Match recognizes arithmetic queries and precomputes their result
func (s *MathSkill) Match(query string) *models.SkillMatch {
	// 1. Direct arithmetic ("2+2", "5 * 10"). Must contain an operator,
	// otherwise "2" would match and show "2".
	if directExpr.MatchString(query) && hasOperator.MatchString(query) {
		if result, err := eval.Evaluate(query); err == nil && !math.IsNaN(result) {
			return &models.SkillMatch{
				Score:   mathDirectScore,
				Data:    MathData{Expression: query, Result: result},
				Preview: "= " + FormatNumber(result),
			}
		}
	}

	// 2. Natural language ("sum of 5 and 10", "square root of 144")
	if expr := preprocessNL(query); expr != "" {
		if result, err := eval.Evaluate(expr); err == nil && !math.IsNaN(result) {
			return &models.SkillMatch{
				Score:   mathNLScore,
				Data:    MathData{Expression: expr, Result: result},
				Preview: "= " + FormatNumber(result),
			}
		}
	}

	return nil
}

// Execute returns the precomputed result verbatim; the caller decides what
// to do with it (display, clipboard).
func (s *MathSkill) Execute(_ context.Context, data interface{}) (string, error) {
	md, ok := data.(MathData)
	if !ok {
		return "", fmt.Errorf("math: unexpected data type %T", data)
	}
	return FormatNumber(md.Result), nil
}

// preprocessNL rewrites a natural-language math phrasing into an
// evaluable expression, or returns "" when the input does not look like
// math afterwards.
func preprocessNL(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))

	// Command words give "and" a specific meaning: "product of 5 and 4"
	// means 5*4, not 5+4. This must run before the generic rewrites.
	if commandPrefix.MatchString(q) {
		switch {
		case productWord.MatchString(q):
			q = andWord.ReplaceAllString(q, "*")
		case quotientWord.MatchString(q):
			q = andWord.ReplaceAllString(q, "/")
		case differenceWord.MatchString(q):
			q = andWord.ReplaceAllString(q, "-")
		default:
			q = andWord.ReplaceAllString(q, "+")
		}
	}

	for _, r := range phraseRewrites {
		q = r.from.ReplaceAllString(q, r.to)
	}

	q = fillerPrefix.ReplaceAllString(q, "")

	if hasDigit.MatchString(q) && looksLikeMath.MatchString(q) {
		return q
	}
	return ""
}

// FormatNumber renders a float the way a calculator would: integers
// without a decimal point, everything else with minimal digits.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
