package campaigns

import (
	"strings"
	"time"

	"github.com/marketops/console/internal/form"
)

// FormSpec seeds and normalizes campaign drafts.
func FormSpec() form.Spec[Campaign, Draft] {
	return form.Spec[Campaign, Draft]{
		From: func(c Campaign) Draft {
			return Draft{
				Name:        c.Name,
				Description: c.Description,
				Objective:   c.Objective,
				Budget:      c.Budget,
				StartDate:   c.StartDate,
				EndDate:     c.EndDate,
				Channels:    append([]string(nil), c.Channels...),
			}
		},
		Normalize: func(d Draft, _ bool) Draft {
			d.Name = strings.TrimSpace(d.Name)
			d.Description = strings.TrimSpace(d.Description)
			d.Channels = form.CompactStrings(d.Channels)
			return d
		},
		Check: func(d Draft, _ bool) map[string]string {
			if d.StartDate == "" || d.EndDate == "" {
				return nil
			}
			start, err1 := time.Parse(DateLayout, d.StartDate)
			end, err2 := time.Parse(DateLayout, d.EndDate)
			if err1 == nil && err2 == nil && end.Before(start) {
				return map[string]string{"fecha_fin": "La fecha de fin debe ser posterior al inicio"}
			}
			return nil
		},
	}
}
