package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID                string              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string              `gorm:"type:text;not null"`
	CNPJ              *string             `gorm:"column:cnpj;type:text"`
	CNPJDigits        *string             `gorm:"column:cnpj_digits;type:text;uniqueIndex:idx_companies_cnpj_digits,where:cnpj_digits IS NOT NULL"`
	Phone             *string             `gorm:"type:text"`
	Email             *string             `gorm:"type:text"`
	City              *string             `gorm:"type:text"`
	State             *string             `gorm:"type:text"`
	Sector            *string             `gorm:"type:text"`
	Website           *string             `gorm:"type:text"`
	Type              string              `gorm:"type:text;not null;default:'Lead'"`
	AnnualRevenue     decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	NumberOfEmployees *int
	Size              *string `gorm:"type:text"`
	OwnerID           string  `gorm:"type:uuid;not null;index"`
	ContactName       *string `gorm:"type:text"`
	ContactPhone      *string `gorm:"type:text"`
	ContactRole       *string `gorm:"column:contact_cargo;type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Company) TableName() string {
	return "companies"
}

type PipelineStage struct {
	ID        string `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string `gorm:"type:text;not null"`
	Position  int    `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
}

func (PipelineStage) TableName() string {
	return "pipeline_stages"
}

type Opportunity struct {
	ID          string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID   string          `gorm:"type:uuid;not null;index"`
	StageID     string          `gorm:"type:uuid;not null;index"`
	OwnerID     string          `gorm:"type:uuid;not null"`
	Title       string          `gorm:"type:text;not null"`
	Value       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Probability int             `gorm:"not null;default:0"`
	Company     Company         `gorm:"constraint:OnDelete:CASCADE"`
	Stage       PipelineStage   `gorm:"foreignKey:StageID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Opportunity) TableName() string {
	return "opportunities"
}
