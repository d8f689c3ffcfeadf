package skills

import (
	"context"
	"errors"
	"fmt"

	"github.com/themobileprof/omnibar/pkg/models"
)

// Skill is a capability that can interpret a free-text query and, when
// selected, perform an action on its precomputed match data.
type Skill interface {
	// ID returns the stable skill identifier
	ID() string
	// Name returns the display name
	Name() string
	// Description returns a short description shown when no preview exists
	Description() string
	// Icon returns the display icon
	Icon() string
	// Match scores the query; nil means the skill does not apply
	Match(query string) *models.SkillMatch
	// Execute performs the skill's action on match data and returns a
	// display/clipboard string
	Execute(ctx context.Context, data interface{}) (string, error)
}

// ErrRateUnavailable indicates exchange rates could not be fetched.
// Surfaced only on Execute; Match degrades to a pending preview instead.
var ErrRateUnavailable = errors.New("exchange rates unavailable")

// UnsupportedCurrencyError indicates a code missing from the fetched table
type UnsupportedCurrencyError struct {
	Code string
}

func (e UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency code %s", e.Code)
}
