package content

import "time"

// Content states.
const (
	StateDraft     = "borrador"
	StatePending   = "pendiente"
	StateApproved  = "aprobado"
	StateRejected  = "rechazado"
	StatePublished = "publicado"
)

// Content types.
const (
	TypePost    = "post"
	TypeArticle = "articulo"
	TypeEmail   = "email"
	TypeAd      = "anuncio"
)

// Item is a piece of marketing content.
type Item struct {
	ID            int64     `json:"id"`
	Title         string    `json:"titulo"`
	Body          string    `json:"cuerpo,omitempty"`
	Type          string    `json:"tipo,omitempty"`
	CampaignID    *int64    `json:"campana_id,omitempty"`
	State         string    `json:"estado"`
	ImageURL      string    `json:"imagen_url,omitempty"`
	Tags          []string  `json:"etiquetas,omitempty"`
	AuthorID      int64     `json:"autor_id,omitempty"`
	ReviewComment string    `json:"comentario_revision,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EntityID implements pagestate.Entity.
func (i Item) EntityID() int64 { return i.ID }

// Label implements pagestate.Labeled.
func (i Item) Label() string { return i.Title }

// Draft is the editable projection of an Item. Only the title is required;
// every other field is omitted from the payload when empty.
type Draft struct {
	Title      string   `json:"titulo" validate:"required,notblank,max=200"`
	Body       string   `json:"cuerpo,omitempty" validate:"max=20000"`
	Type       string   `json:"tipo,omitempty" validate:"omitempty,oneof=post articulo email anuncio"`
	CampaignID *int64   `json:"campana_id,omitempty" validate:"omitempty,gt=0"`
	ImageURL   string   `json:"imagen_url,omitempty" validate:"omitempty,url"`
	Tags       []string `json:"etiquetas,omitempty" validate:"dive,max=40"`
	// SubmitForReview sends the item straight to the approval queue.
	SubmitForReview bool `json:"enviar_revision,omitempty"`
}
