package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of a consumption date
const DateLayout = "2006-01-02"

// ConsumptionType tells whether the portions were sold or lost
type ConsumptionType int

const (
	Sale ConsumptionType = iota
	Loss
)

// String method for ConsumptionType enum
func (t ConsumptionType) String() string {
	switch t {
	case Sale:
		return "sale"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// ParseConsumptionType parses the wire value of a consumption type
func ParseConsumptionType(s string) (ConsumptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale":
		return Sale, nil
	case "loss":
		return Loss, nil
	case "":
		return 0, fmt.Errorf("%w: consumption_type is required", ErrInvalidInput)
	default:
		return 0, fmt.Errorf("%w: unknown consumption_type %q", ErrInvalidInput, s)
	}
}

// Consumption declares that portions of a recipe were sold or lost on a date.
// Only Name changes after creation.
type Consumption struct {
	ID              string
	UserID          string
	RecipeID        string
	Type            ConsumptionType
	Portions        decimal.Decimal
	ConsumptionDate time.Time
	Name            string
	Notes           string
	BatchID         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewConsumption creates a validated Consumption
func NewConsumption(id, userID, recipeID string, consumptionType ConsumptionType, portions decimal.Decimal, date time.Time, createdAt time.Time) (*Consumption, error) {
	if id == "" {
		return nil, fmt.Errorf("consumption id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("consumption user id cannot be empty")
	}
	if recipeID == "" {
		return nil, fmt.Errorf("%w: recipe_id is required", ErrInvalidInput)
	}
	if !portions.IsPositive() {
		return nil, fmt.Errorf("%w: portions must be positive, got %s", ErrInvalidInput, portions)
	}

	return &Consumption{
		ID:              id,
		UserID:          userID,
		RecipeID:        recipeID,
		Type:            consumptionType,
		Portions:        portions,
		ConsumptionDate: date,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// InBatch reports whether the consumption was created by a grouped validation
func (c *Consumption) InBatch() bool {
	return c.BatchID != ""
}

// DisplayName returns the stored name, or the default one derived from the
// creation time when the consumption was never named.
func (c *Consumption) DisplayName(locale Locale) string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return DefaultConsumptionName(locale, c.CreatedAt)
}

// ConsumptionFilter narrows a consumption listing. Zero values mean no bound.
type ConsumptionFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Type      *ConsumptionType
	Limit     int
}

// Locale selects the language of generated names and labels
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// DefaultConsumptionName builds the name given to an unnamed consumption.
// Resolution is one minute, so names generated within a second are equal.
func DefaultConsumptionName(locale Locale, at time.Time) string {
	switch locale {
	case LocaleFR:
		return fmt.Sprintf("Consommation du %s à %s", at.Format("02/01/2006"), at.Format("15:04"))
	default:
		return fmt.Sprintf("Consumption of %s at %s", at.Format(DateLayout), at.Format("15:04"))
	}
}
