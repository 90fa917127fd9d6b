package content

import (
	"context"
	"errors"
	"strings"

	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

var (
	// ErrPublishedDelete rejects deleting content that is already live.
	ErrPublishedDelete = shared.NewMessageError(errors.New("content: published content cannot be deleted"), "El contenido publicado no se puede eliminar")
	// ErrRejectComment requires a reason when rejecting.
	ErrRejectComment = shared.NewMessageError(errors.New("content: rejection requires a comment"), "Indica el motivo del rechazo")
	// ErrNotPending rejects reviewing an item outside the queue.
	ErrNotPending = shared.NewMessageError(errors.New("content: item is not pending review"), "El contenido no está pendiente de revisión")
)

// ApprovalQueue lists content awaiting review. The estado filter is pinned
// to pendiente; approving or rejecting always refetches the queue from the
// server. Fetch failures are surfaced, never replaced with sample data.
type ApprovalQueue struct {
	*pagestate.Controller[Item, Draft]
}

// NewApprovalQueue builds the approval queue.
func NewApprovalQueue(api *API, opts pagestate.Options[Item]) *ApprovalQueue {
	opts.Name = "aprobaciones"
	opts.Filters = shared.Filters{"estado": StatePending}
	opts.StateGuard = func(i Item, _ string) error {
		if i.State != "" && i.State != StatePending {
			return ErrNotPending
		}
		return nil
	}
	opts.Messages = pagestate.Messages{StateChanged: "Revisión registrada"}
	return &ApprovalQueue{Controller: pagestate.New[Item, Draft](api, FormSpec(), opts)}
}

// SetFilter changes a filter other than estado, which stays pinned.
func (q *ApprovalQueue) SetFilter(ctx context.Context, key, value string) error {
	if key == "estado" {
		return q.Refresh(ctx)
	}
	return q.Controller.SetFilter(ctx, key, value)
}

// SetFilters replaces the filters while keeping estado pinned.
func (q *ApprovalQueue) SetFilters(ctx context.Context, filters shared.Filters) error {
	next := filters.Clone()
	next["estado"] = StatePending
	return q.Controller.SetFilters(ctx, next)
}

// ClearFilters resets every filter except estado.
func (q *ApprovalQueue) ClearFilters(ctx context.Context) error {
	return q.SetFilters(ctx, nil)
}

// Approve marks item as approved.
func (q *ApprovalQueue) Approve(ctx context.Context, item Item, comment string) error {
	return q.ChangeState(ctx, item, shared.StateChange{State: StateApproved, Comment: strings.TrimSpace(comment)})
}

// Reject sends item back to its author; a comment is mandatory.
func (q *ApprovalQueue) Reject(ctx context.Context, item Item, comment string) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		q.Notifier().Error(ErrRejectComment)
		return ErrRejectComment
	}
	return q.ChangeState(ctx, item, shared.StateChange{State: StateRejected, Comment: comment})
}
