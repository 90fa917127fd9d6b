package publications

import (
	"errors"
	"time"

	"github.com/marketops/console/internal/shared"
)

// Publication states.
const (
	StateScheduled = "programada"
	StatePublished = "publicada"
	StateFailed    = "fallida"
	StateCancelled = "cancelada"
)

// Networks a publication can target.
var Networks = []string{"facebook", "instagram", "linkedin", "twitter"}

// ErrNotScheduled rejects changes to publications that already left the queue.
var ErrNotScheduled = shared.NewMessageError(errors.New("publications: publication is not scheduled"), "Solo se pueden modificar publicaciones programadas")

// Publication is a content item scheduled on one social network.
type Publication struct {
	ID             int64     `json:"id"`
	ContentID      int64     `json:"contenido_id"`
	ContentTitle   string    `json:"contenido_titulo,omitempty"`
	Network        string    `json:"red"`
	ScheduledAt    time.Time `json:"fecha_programada"`
	State          string    `json:"estado"`
	PublicationURL string    `json:"url_publicacion,omitempty"`
	Message        string    `json:"mensaje,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EntityID implements pagestate.Entity.
func (p Publication) EntityID() int64 { return p.ID }

// Label implements pagestate.Labeled.
func (p Publication) Label() string {
	if p.ContentTitle != "" {
		return p.ContentTitle + " (" + p.Network + ")"
	}
	return ""
}

// Draft is the editable projection of a Publication.
type Draft struct {
	ContentID   int64     `json:"contenido_id" validate:"required,gt=0"`
	Network     string    `json:"red" validate:"required,oneof=facebook instagram linkedin twitter"`
	ScheduledAt time.Time `json:"fecha_programada" validate:"required"`
	Message     string    `json:"mensaje,omitempty" validate:"max=2200"`
}
