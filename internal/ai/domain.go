package ai

import "time"

// Generation kinds recorded in the history.
const (
	KindText  = "texto"
	KindImage = "imagen"
)

// TextRequest asks the backend to draft copy.
type TextRequest struct {
	Prompt    string `json:"prompt" validate:"required,notblank,min=10,max=2000"`
	Tone      string `json:"tono,omitempty" validate:"omitempty,oneof=formal cercano divertido inspirador"`
	Format    string `json:"formato,omitempty" validate:"omitempty,oneof=post articulo email anuncio"`
	MaxWords  int    `json:"max_palabras,omitempty" validate:"omitempty,min=10,max=2000"`
	ContentID *int64 `json:"contenido_id,omitempty"`
}

// TextResult is generated copy.
type TextResult struct {
	ID        int64     `json:"id"`
	Text      string    `json:"texto"`
	Tokens    int       `json:"tokens,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageRequest asks the backend for an image.
type ImageRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank,min=10,max=1000"`
	Style  string `json:"estilo,omitempty" validate:"omitempty,oneof=foto ilustracion minimalista"`
	Size   string `json:"tamano,omitempty" validate:"omitempty,oneof=512x512 1024x1024 1024x1792"`
}

// ImageResult is a generated image.
type ImageResult struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is one past generation.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"tipo"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"resultado"`
	UserID    int64     `json:"usuario_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
