package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type article struct {
	ID    int64
	Title string
	Body  string
	Tags  []string
}

type articleDraft struct {
	Title    string   `json:"titulo" validate:"required,notblank,max=20"`
	Body     string   `json:"cuerpo,omitempty"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Tags     []string `json:"etiquetas,omitempty"`
	Password string   `json:"password,omitempty"`
}

func articleSpec() Spec[article, articleDraft] {
	return Spec[article, articleDraft]{
		New:  func() articleDraft { return articleDraft{Body: "plantilla"} },
		From: func(a article) articleDraft { return articleDraft{Title: a.Title, Body: a.Body, Tags: a.Tags} },
		Normalize: func(d articleDraft, _ bool) articleDraft {
			d.Title = Trim(d.Title)
			d.Body = Trim(d.Body)
			d.Tags = CompactStrings(d.Tags)
			return d
		},
		Check: func(d articleDraft, editing bool) map[string]string {
			if !editing && d.Password == "" {
				return map[string]string{"password": "Este campo es obligatorio"}
			}
			return nil
		},
	}
}

func TestOpenSeedsFromDefaultsAndTarget(t *testing.T) {
	m := NewModal(articleSpec())
	m.Open(nil)
	require.True(t, m.IsOpen())
	assert.Nil(t, m.Target())
	assert.Equal(t, "plantilla", m.Draft().Body)

	m.Open(&article{ID: 4, Title: "Hola", Body: "Mundo"})
	require.NotNil(t, m.Target())
	assert.Equal(t, int64(4), m.Target().ID)
	assert.Equal(t, "Hola", m.Draft().Title)
	assert.Equal(t, "Mundo", m.Draft().Body)
}

func TestReopenDiscardsEdits(t *testing.T) {
	m := NewModal(articleSpec())
	target := &article{ID: 1, Title: "Original"}
	m.Open(target)
	m.Update(func(d *articleDraft) { d.Title = "Cambiado" })
	m.Close()
	assert.False(t, m.IsOpen())

	m.Open(target)
	assert.Equal(t, "Original", m.Draft().Title)
}

func TestSubmitInvalidSkipsSave(t *testing.T) {
	m := NewModal(articleSpec())
	m.Open(nil)
	m.Update(func(d *articleDraft) {
		d.Title = "   "
		d.Email = "no-es-email"
	})

	called := false
	err := m.Submit(context.Background(), func(context.Context, articleDraft) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)

	errs := m.Errors()
	assert.Equal(t, "Este campo es obligatorio", errs["titulo"])
	assert.Equal(t, "Introduce un email válido", errs["email"])
	assert.Equal(t, "Este campo es obligatorio", errs["password"])

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 3)
}

func TestSubmitNormalizesDraft(t *testing.T) {
	m := NewModal(articleSpec())
	m.Open(&article{ID: 2, Title: "  Lanzamiento  ", Tags: []string{" a ", "", "b"}})

	var saved articleDraft
	err := m.Submit(context.Background(), func(_ context.Context, d articleDraft) error {
		saved = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Lanzamiento", saved.Title)
	assert.Equal(t, []string{"a", "b"}, saved.Tags)
	assert.Empty(t, m.Errors())
	assert.True(t, m.IsOpen())
}

func TestSubmitPropagatesSaveError(t *testing.T) {
	m := NewModal(articleSpec())
	m.Open(&article{ID: 2, Title: "Ok"})
	boom := errors.New("boom")
	err := m.Submit(context.Background(), func(context.Context, articleDraft) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.True(t, m.IsOpen())
}

func TestValidateStructMaxLength(t *testing.T) {
	errs := ValidateStruct(articleDraft{Title: "un título demasiado largo para el campo"})
	assert.Equal(t, "Debe tener como máximo 20 caracteres", errs["titulo"])
}

func TestCompactStringsNilWhenEmpty(t *testing.T) {
	assert.Nil(t, CompactStrings([]string{" ", ""}))
}
