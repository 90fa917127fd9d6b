package social

import "time"

// Account is a connected social network profile.
type Account struct {
	ID          int64     `json:"id"`
	Network     string    `json:"red"`
	Handle      string    `json:"usuario"`
	Name        string    `json:"nombre,omitempty"`
	Connected   bool      `json:"conectada"`
	ConnectedAt time.Time `json:"fecha_conexion"`
}

// EntityID implements pagestate.Entity.
func (a Account) EntityID() int64 { return a.ID }

// Label implements pagestate.Labeled.
func (a Account) Label() string { return a.Network + " @" + a.Handle }

// ConnectRequest links a new account through the backend.
type ConnectRequest struct {
	Network     string `json:"red" validate:"required,oneof=facebook instagram linkedin twitter"`
	Handle      string `json:"usuario" validate:"required,notblank,max=100"`
	AccessToken string `json:"token_acceso" validate:"required,notblank"`
}

// PublishRequest publishes a scheduled publication immediately.
type PublishRequest struct {
	PublicationID int64 `json:"publicacion_id" validate:"required,gt=0"`
}

// PublishResult is the outcome reported by the network.
type PublishResult struct {
	PublicationID  int64  `json:"publicacion_id"`
	State          string `json:"estado"`
	PublicationURL string `json:"url_publicacion,omitempty"`
	Message        string `json:"mensaje,omitempty"`
}
