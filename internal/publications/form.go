package publications

import (
	"strings"
	"time"

	"github.com/marketops/console/internal/form"
)

// FormSpec seeds and normalizes publication drafts. New drafts are
// scheduled one hour ahead.
func FormSpec(now func() time.Time) form.Spec[Publication, Draft] {
	if now == nil {
		now = time.Now
	}
	return form.Spec[Publication, Draft]{
		New: func() Draft {
			return Draft{ScheduledAt: now().Add(time.Hour).Truncate(time.Minute)}
		},
		From: func(p Publication) Draft {
			return Draft{ContentID: p.ContentID, Network: p.Network, ScheduledAt: p.ScheduledAt, Message: p.Message}
		},
		Normalize: func(d Draft, _ bool) Draft {
			d.Network = strings.ToLower(strings.TrimSpace(d.Network))
			d.Message = strings.TrimSpace(d.Message)
			d.ScheduledAt = d.ScheduledAt.UTC()
			return d
		},
		Check: func(d Draft, _ bool) map[string]string {
			if !d.ScheduledAt.IsZero() && d.ScheduledAt.Before(now()) {
				return map[string]string{"fecha_programada": "La fecha debe ser futura"}
			}
			return nil
		},
	}
}
