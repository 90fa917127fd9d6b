package stubapi

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marketops/console/internal/ai"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/users"
)

var toneOpeners = map[string]string{
	"formal":     "Le presentamos",
	"cercano":    "¿Sabías que",
	"divertido":  "¡Atención!",
	"inspirador": "Imagina",
}

func (s *Server) mountAI(r chi.Router) {
	r.Get("/historial", s.aiHistory)
	r.Group(func(r chi.Router) {
		r.Use(requireRole(writerRoles...))
		r.Post("/texto", s.generateText)
		r.Post("/imagen", s.generateImage)
	})
}

// draftCopy produces deterministic copy so tests can assert on it.
func draftCopy(req ai.TextRequest) string {
	opener := toneOpeners[req.Tone]
	if opener == "" {
		opener = "Descubre"
	}
	text := fmt.Sprintf("%s %s", opener, strings.TrimSpace(req.Prompt))
	if req.MaxWords > 0 {
		words := strings.Fields(text)
		if len(words) > req.MaxWords {
			text = strings.Join(words[:req.MaxWords], " ")
		}
	}
	return text
}

func (s *Server) record(r *http.Request, kind, prompt, result string) ai.HistoryEntry {
	userID := currentUser(r).ID
	now := s.now().UTC()
	return s.history.insert(func(id int64) ai.HistoryEntry {
		return ai.HistoryEntry{ID: id, Kind: kind, Prompt: prompt, Result: result, UserID: userID, CreatedAt: now}
	})
}

func (s *Server) generateText(w http.ResponseWriter, r *http.Request) {
	var req ai.TextRequest
	if !decode(w, r, &req) {
		return
	}
	text := draftCopy(req)
	entry := s.record(r, ai.KindText, req.Prompt, text)
	httpx.JSON(w, http.StatusOK, ai.TextResult{
		ID:        entry.ID,
		Text:      text,
		Tokens:    len(strings.Fields(text)),
		CreatedAt: entry.CreatedAt,
	})
}

func (s *Server) generateImage(w http.ResponseWriter, r *http.Request) {
	var req ai.ImageRequest
	if !decode(w, r, &req) {
		return
	}
	url := fmt.Sprintf("https://images.marketops.local/ia/%s.png", uuid.NewString())
	entry := s.record(r, ai.KindImage, req.Prompt, url)
	httpx.JSON(w, http.StatusOK, ai.ImageResult{ID: entry.ID, URL: url, CreatedAt: entry.CreatedAt})
}

func (s *Server) aiHistory(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("tipo")
	me := currentUser(r)
	entries := s.history.list(func(e ai.HistoryEntry) bool {
		if kind != "" && e.Kind != kind {
			return false
		}
		return me.Role == users.RoleAdmin || e.UserID == me.ID
	})
	slices.Reverse(entries)
	respondPage(w, r, entries)
}
