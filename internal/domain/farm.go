package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// farm_type values
const (
	FarmTypeLivestock = "livestock"
	FarmTypeCrop      = "crop"
	FarmTypeMixed     = "mixed"
)

// Farm maps the farms table. Verification and certification are independent booleans.
type Farm struct {
	ID           string          `db:"id" json:"id"`
	FarmerID     string          `db:"farmer_id" json:"farmer_id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Location     string          `db:"location" json:"location"`
	Region       string          `db:"region" json:"region"`
	SizeHectares decimal.Decimal `db:"size_hectares" json:"size_hectares"`
	FarmType     string          `db:"farm_type" json:"farm_type"`
	Crops        pq.StringArray  `db:"crops" json:"crops"`
	IsVerified   bool            `db:"is_verified" json:"is_verified"`
	IsCertified  bool            `db:"is_certified" json:"is_certified"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Media maps the media table; rows hold URLs of objects stored elsewhere.
type Media struct {
	ID         string    `db:"id" json:"id"`
	FarmID     *string   `db:"farm_id" json:"farm_id,omitempty"`
	AssetID    *string   `db:"asset_id" json:"asset_id,omitempty"`
	URL        string    `db:"url" json:"url"`
	MediaType  string    `db:"media_type" json:"media_type"`
	Caption    string    `db:"caption" json:"caption"`
	UploadedBy string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
