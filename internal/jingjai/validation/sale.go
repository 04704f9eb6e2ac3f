package validation

import (
	"strings"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

// stageAliases maps the labels used on the pipeline board to stages.
var stageAliases = map[string]models.SaleStage{
	"quote":   models.StageQuoted,
	"awarded": models.StageWon,
}

func SanitizeSale(p *models.SalePatch) {
	for _, s := range []*string{p.Title, p.ClientRef, p.Currency, p.CloseDate, p.Owner, p.Notes} {
		trim(s)
	}
	if p.Stage != nil {
		stage := strings.TrimSpace(string(*p.Stage))
		if alias, ok := stageAliases[strings.ToLower(stage)]; ok {
			stage = string(alias)
		}
		*p.Stage = models.SaleStage(stage)
	}
	trimSet(p.Tags)
}

// ApplySale merges p into s, parsing its textual references.
func ApplySale(s *models.Sale, p *models.SalePatch) Violations {
	v := Violations{}
	p.ApplyTo(s)
	if p.ClientRef != nil {
		s.ClientRef = parseRef("clientRef", *p.ClientRef, v)
	}
	if p.CloseDate != nil {
		s.CloseDate = nil
		if *p.CloseDate != "" {
			d, err := time.Parse(time.DateOnly, *p.CloseDate)
			if err != nil {
				v["closeDate"] = "must be a date (YYYY-MM-DD)"
			} else {
				s.CloseDate = &d
			}
		}
	}
	return v
}

// Sale fills defaults and validates a merged sale.
func Sale(s *models.Sale) Violations {
	v := Violations{}
	Required("title", s.Title, v)
	MaxLength("title", s.Title, 255, v)
	MaxLength("notes", s.Notes, 3000, v)
	OneOf("stage", &s.Stage, models.SaleStages, models.StageLead, v)
	NonNegative("amount", s.Amount, v)
	Numeric("amount", s.Amount, 14, 2, v)
	Currency("currency", &s.Currency, DefaultCurrency, v)
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return v
}

// parseRef reads an optional record reference. Empty clears it.
func parseRef(field, raw string, v Violations) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		v[field] = "must be a valid id"
		return nil
	}
	return &id
}
