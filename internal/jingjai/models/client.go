package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ClientStatus is the relationship state of a client.
type ClientStatus string

const (
	ClientProspect ClientStatus = "Prospect"
	ClientActive   ClientStatus = "Active"
	ClientInactive ClientStatus = "Inactive"
)

// ClientStatuses lists the accepted statuses.
var ClientStatuses = []ClientStatus{ClientProspect, ClientActive, ClientInactive}

// ClientTier ranks a client by value.
type ClientTier string

const (
	TierA ClientTier = "A"
	TierB ClientTier = "B"
	TierC ClientTier = "C"
)

var ClientTiers = []ClientTier{TierA, TierB, TierC}

// PaymentTerms is the agreed invoice due period.
type PaymentTerms string

const (
	TermsDueOnReceipt PaymentTerms = "Due on receipt"
	TermsNet7         PaymentTerms = "Net 7"
	TermsNet15        PaymentTerms = "Net 15"
	TermsNet30        PaymentTerms = "Net 30"
	TermsNet45        PaymentTerms = "Net 45"
	TermsNet60        PaymentTerms = "Net 60"
)

var PaymentTermsOptions = []PaymentTerms{
	TermsDueOnReceipt, TermsNet7, TermsNet15, TermsNet30, TermsNet45, TermsNet60,
}

// ClientIDPrefix is prepended to the sequence number of a client.
const ClientIDPrefix = "CL"

// Client is a company or counterparty.
type Client struct {
	// ID is the opaque primary key.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// ClientID is the human-facing sequential identifier, e.g. CL-100001.
	// It is assigned once at creation and never changes.
	ClientID    string `gorm:"size:32;uniqueIndex" json:"clientId"`
	LegalName   string `gorm:"size:255;not null" json:"legalName"`
	TradingName string `gorm:"size:255" json:"tradingName"`
	Industry    string `gorm:"size:128" json:"industry"`
	Website     string `gorm:"size:255" json:"website"`

	Status ClientStatus                `gorm:"size:16" json:"status"`
	Tier   ClientTier                  `gorm:"size:1" json:"tier"`
	Tags   datatypes.JSONSlice[string] `json:"tags"`

	TaxID         string `gorm:"size:64;index" json:"taxId"`
	VATRegistered bool   `json:"vatRegistered"`
	NDASigned     bool   `json:"ndaSigned"`
	VendorFormURL string `gorm:"size:512" json:"vendorFormUrl"`

	Currency      string                      `gorm:"size:3" json:"currency"`
	PaymentTerms  PaymentTerms                `gorm:"size:32" json:"paymentTerms"`
	DiscountRate  decimal.Decimal             `gorm:"type:decimal(5,2)" json:"discountRate"`
	PORequired    bool                        `json:"poRequired"`
	BillingEmails datatypes.JSONSlice[string] `json:"billingEmails"`
	Address       Address                     `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Contacts datatypes.JSONSlice[Contact] `json:"contacts"`

	Audit
}

// ClientPatch is the caller-supplied field set of an upsert. A nil field is
// left untouched on update; a present but empty one clears the stored value.
type ClientPatch struct {
	LegalName     *string          `json:"legalName,omitempty"`
	TradingName   *string          `json:"tradingName,omitempty"`
	Industry      *string          `json:"industry,omitempty"`
	Website       *string          `json:"website,omitempty"`
	Status        *ClientStatus    `json:"status,omitempty"`
	Tier          *ClientTier      `json:"tier,omitempty"`
	Tags          *[]string        `json:"tags,omitempty"`
	TaxID         *string          `json:"taxId,omitempty"`
	VATRegistered *bool            `json:"vatRegistered,omitempty"`
	NDASigned     *bool            `json:"ndaSigned,omitempty"`
	VendorFormURL *string          `json:"vendorFormUrl,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
	PaymentTerms  *PaymentTerms    `json:"paymentTerms,omitempty"`
	DiscountRate  *decimal.Decimal `json:"discountRate,omitempty"`
	PORequired    *bool            `json:"poRequired,omitempty"`
	BillingEmails *[]string        `json:"billingEmails,omitempty"`
	Address       *Address         `json:"address,omitempty"`
	Contacts      *[]Contact       `json:"contacts,omitempty"`
}

// ApplyTo merges the patch into c. Identity and audit fields are never touched.
func (p *ClientPatch) ApplyTo(c *Client) {
	setString(&c.LegalName, p.LegalName)
	setString(&c.TradingName, p.TradingName)
	setString(&c.Industry, p.Industry)
	setString(&c.Website, p.Website)
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Tier != nil {
		c.Tier = *p.Tier
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
	setString(&c.TaxID, p.TaxID)
	setBool(&c.VATRegistered, p.VATRegistered)
	setBool(&c.NDASigned, p.NDASigned)
	setString(&c.VendorFormURL, p.VendorFormURL)
	setString(&c.Currency, p.Currency)
	if p.PaymentTerms != nil {
		c.PaymentTerms = *p.PaymentTerms
	}
	if p.DiscountRate != nil {
		c.DiscountRate = *p.DiscountRate
	}
	setBool(&c.PORequired, p.PORequired)
	if p.BillingEmails != nil {
		c.BillingEmails = *p.BillingEmails
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Contacts != nil {
		c.Contacts = *p.Contacts
	}
}
