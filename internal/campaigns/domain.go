package campaigns

import (
	"fmt"
	"time"

	"github.com/marketops/console/internal/shared"
)

// Campaign states.
const (
	StateDraft    = "borrador"
	StateActive   = "activa"
	StatePaused   = "pausada"
	StateFinished = "finalizada"
)

// DateLayout is the wire format of campaign dates.
const DateLayout = "2006-01-02"

// transitions lists the states reachable from each state.
var transitions = map[string][]string{
	StateDraft:    {StateActive},
	StateActive:   {StatePaused, StateFinished},
	StatePaused:   {StateActive, StateFinished},
	StateFinished: {},
}

// Campaign is a marketing campaign.
type Campaign struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	Objective   string    `json:"objetivo,omitempty"`
	Budget      float64   `json:"presupuesto"`
	StartDate   string    `json:"fecha_inicio,omitempty"`
	EndDate     string    `json:"fecha_fin,omitempty"`
	State       string    `json:"estado"`
	Channels    []string  `json:"canales,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements pagestate.Entity.
func (c Campaign) EntityID() int64 { return c.ID }

// Label implements pagestate.Labeled.
func (c Campaign) Label() string { return c.Name }

// Draft is the editable projection of a Campaign.
type Draft struct {
	Name        string   `json:"nombre" validate:"required,notblank,max=150"`
	Description string   `json:"descripcion,omitempty" validate:"max=2000"`
	Objective   string   `json:"objetivo,omitempty" validate:"omitempty,oneof=alcance trafico conversion engagement leads"`
	Budget      float64  `json:"presupuesto,omitempty" validate:"gte=0"`
	StartDate   string   `json:"fecha_inicio,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"fecha_fin,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Channels    []string `json:"canales,omitempty" validate:"dive,oneof=facebook instagram linkedin twitter email"`
}

// Stats summarises campaigns by state.
type Stats struct {
	Total       int     `json:"total"`
	Draft       int     `json:"borradores"`
	Active      int     `json:"activas"`
	Paused      int     `json:"pausadas"`
	Finished    int     `json:"finalizadas"`
	TotalBudget float64 `json:"presupuesto_total"`
}

// CanTransition reports whether a campaign may move from one state to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionError rejects a state change the workflow does not allow.
func TransitionError(from, to string) error {
	return shared.NewMessageError(
		fmt.Errorf("campaigns: transition %s -> %s not allowed", from, to),
		fmt.Sprintf("Una campaña %s no puede pasar a %s", from, to),
	)
}
