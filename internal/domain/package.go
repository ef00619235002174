package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package categories
const (
	CategoryLivestock = "livestock"
	CategoryCrop      = "crop"
)

// Package is an investable offering with a minimum ticket and promised ROI.
type Package struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Category       string          `db:"category" json:"category"`
	Description    string          `db:"description" json:"description"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	MinInvestment  decimal.Decimal `db:"min_investment" json:"min_investment"`
	ROIPercent     decimal.Decimal `db:"roi_percent" json:"roi_percent"`
	DurationMonths int             `db:"duration_months" json:"duration_months"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// AcceptsAmount checks the minimum-investment rule.
func (p *Package) AcceptsAmount(amount decimal.Decimal) error {
	if !p.IsActive {
		return ErrInactivePackage
	}
	if amount.LessThan(p.MinInvestment) {
		return fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, p.MinInvestment.StringFixed(2))
	}
	return nil
}

// Asset phases per category
var (
	LivestockPhases = []string{"acquired", "rearing", "fattening", "ready", "sold"}
	CropPhases      = []string{"planted", "growing", "harvest", "sold"}
	AssetStatuses   = []string{"active", "matured", "sold", "lost"}
)

// Asset is an investor-owned unit allocated when a payment is verified.
type Asset struct {
	ID           string          `db:"id" json:"id"`
	InvestorID   string          `db:"investor_id" json:"investor_id"`
	PackageID    string          `db:"package_id" json:"package_id"`
	InvestmentID string          `db:"investment_id" json:"investment_id"`
	FarmID       *string         `db:"farm_id" json:"farm_id,omitempty"`
	TagID        string          `db:"tag_id" json:"tag_id"`
	AssetType    string          `db:"asset_type" json:"asset_type"`
	Phase        string          `db:"phase" json:"phase"`
	Status       string          `db:"status" json:"status"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// InitialPhase is the phase a freshly allocated asset starts in.
func InitialPhase(category string) string {
	if category == CategoryCrop {
		return CropPhases[0]
	}
	return LivestockPhases[0]
}

// ValidPhase reports whether phase belongs to category.
func ValidPhase(category, phase string) bool {
	phases := LivestockPhases
	if category == CategoryCrop {
		phases = CropPhases
	}
	for _, p := range phases {
		if p == phase {
			return true
		}
	}
	return false
}

// ValidAssetStatus reports whether status is a known asset status.
func ValidAssetStatus(status string) bool {
	for _, s := range AssetStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// NewTagID builds a tag like LIV-2026-1A2B3C4D. The suffix comes from a random
// uuid; uniqueness is backed by the unique index on assets.tag_id.
func NewTagID(category string, now time.Time) string {
	prefix := "LIV"
	if category == CategoryCrop {
		prefix = "CRP"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), suffix)
}
