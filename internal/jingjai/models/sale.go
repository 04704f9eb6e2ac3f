package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SaleStage is the position of a deal in the pipeline:
// Lead -> Qualified -> Quoted -> Won, or Lost.
type SaleStage string

const (
	StageLead      SaleStage = "Lead"
	StageQualified SaleStage = "Qualified"
	StageQuoted    SaleStage = "Quoted"
	StageWon       SaleStage = "Won"
	StageLost      SaleStage = "Lost"
)

var SaleStages = []SaleStage{StageLead, StageQualified, StageQuoted, StageWon, StageLost}

// Sale is a deal in the sales pipeline.
type Sale struct {
	ID        uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	ClientRef *uuid.UUID                  `gorm:"type:char(36);index" json:"clientRef"`
	Stage     SaleStage                   `gorm:"size:16" json:"stage"`
	Amount    decimal.Decimal             `gorm:"type:decimal(14,2)" json:"amount"`
	Currency  string                      `gorm:"size:3" json:"currency"`
	CloseDate *time.Time                  `gorm:"type:date" json:"closeDate"`
	Owner     string                      `gorm:"size:128" json:"owner"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Notes     string                      `gorm:"size:3000" json:"notes"`

	Audit
}

// SalePatch is the caller-supplied field set of a sale upsert. ClientRef and
// CloseDate arrive as text and are parsed during validation.
type SalePatch struct {
	Title     *string          `json:"title,omitempty"`
	ClientRef *string          `json:"clientRef,omitempty"`
	Stage     *SaleStage       `json:"stage,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Currency  *string          `json:"currency,omitempty"`
	CloseDate *string          `json:"closeDate,omitempty"`
	Owner     *string          `json:"owner,omitempty"`
	Tags      *[]string        `json:"tags,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// ApplyTo merges the plain fields of the patch into s.
func (p *SalePatch) ApplyTo(s *Sale) {
	setString(&s.Title, p.Title)
	if p.Stage != nil {
		s.Stage = *p.Stage
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	setString(&s.Currency, p.Currency)
	setString(&s.Owner, p.Owner)
	if p.Tags != nil {
		s.Tags = *p.Tags
	}
	setString(&s.Notes, p.Notes)
}
