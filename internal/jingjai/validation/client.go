package validation

import (
	"fmt"
	"strings"

	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/shopspring/decimal"
)

var (
	minDiscount = decimal.Zero
	maxDiscount = decimal.NewFromInt(100)
)

// SanitizeClient trims every string of the patch and normalizes its lists.
func SanitizeClient(p *models.ClientPatch) {
	for _, s := range []*string{
		p.LegalName, p.TradingName, p.Industry, p.Website,
		p.TaxID, p.VendorFormURL, p.Currency,
	} {
		trim(s)
	}
	if p.Status != nil {
		*p.Status = models.ClientStatus(strings.TrimSpace(string(*p.Status)))
	}
	if p.Tier != nil {
		*p.Tier = models.ClientTier(strings.TrimSpace(string(*p.Tier)))
	}
	if p.PaymentTerms != nil {
		*p.PaymentTerms = models.PaymentTerms(strings.TrimSpace(string(*p.PaymentTerms)))
	}
	trimSet(p.Tags)
	trimSet(p.BillingEmails)
	if p.Address != nil {
		a := p.Address
		for _, s := range []*string{&a.Line1, &a.Line2, &a.City, &a.Region, &a.PostalCode, &a.Country} {
			trim(s)
		}
	}
	if p.Contacts != nil {
		contacts := make([]models.Contact, 0, len(*p.Contacts))
		for _, c := range *p.Contacts {
			for _, s := range []*string{&c.Name, &c.Title, &c.Email, &c.Phone} {
				trim(s)
			}
			if c == (models.Contact{}) {
				continue
			}
			contacts = append(contacts, c)
		}
		*p.Contacts = contacts
	}
}

// CheckVAT enforces that a VAT-registered client carries a tax ID.
func CheckVAT(c *models.Client) error {
	if c.VATRegistered && c.TaxID == "" {
		return fmt.Errorf("%w: taxId is required when vatRegistered is true", e.ErrFailedPrecondition)
	}
	return nil
}

// Client fills defaults for empty enum fields of a merged client and
// reports every field that breaks a rule.
func Client(c *models.Client) Violations {
	v := Violations{}
	Required("legalName", c.LegalName, v)
	MaxLength("legalName", c.LegalName, 255, v)
	MaxLength("tradingName", c.TradingName, 255, v)
	MaxLength("taxId", c.TaxID, 64, v)
	OneOf("status", &c.Status, models.ClientStatuses, models.ClientProspect, v)
	OneOf("tier", &c.Tier, models.ClientTiers, models.TierC, v)
	OneOf("paymentTerms", &c.PaymentTerms, models.PaymentTermsOptions, models.TermsNet30, v)
	Currency("currency", &c.Currency, DefaultCurrency, v)
	RangeDecimal("discountRate", c.DiscountRate, minDiscount, maxDiscount, v)
	Numeric("discountRate", c.DiscountRate, 5, 2, v)
	HTTPURL("vendorFormUrl", c.VendorFormURL, v)

	for i, addr := range c.BillingEmails {
		Email(fmt.Sprintf("billingEmails[%d]", i), addr, v)
	}
	for i, contact := range c.Contacts {
		Required(fmt.Sprintf("contacts[%d].name", i), contact.Name, v)
		Email(fmt.Sprintf("contacts[%d].email", i), contact.Email, v)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.BillingEmails == nil {
		c.BillingEmails = []string{}
	}
	if c.Contacts == nil {
		c.Contacts = []models.Contact{}
	}
	return v
}
