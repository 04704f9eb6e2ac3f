package validation

import "github.com/gartstein/jingjai/internal/jingjai/models"

func SanitizeResource(p *models.ResourcePatch) {
	trim(p.Name)
	trim(p.Type)
}

func Resource(r *models.Resource) Violations {
	v := Violations{}
	Required("name", r.Name, v)
	MaxLength("name", r.Name, 255, v)
	MaxLength("type", r.Type, 64, v)
	return v
}
