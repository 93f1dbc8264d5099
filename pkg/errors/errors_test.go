package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound))
	assert.Equal(t, http.StatusBadRequest, StatusOf(Invalid.Explain("bad body")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(Unprocessable.WithField("required", "title", "missing")))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("lookup: %w", NotFound.Wrap(New("no rows")))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(New("boom")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("plain")))
}

func TestIs_MatchesKind(t *testing.T) {
	err := NotFound.Explain("task 7").Wrap(fmt.Errorf("record not found"))

	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Conflict))
	assert.True(t, Is(fmt.Errorf("outer: %w", err), NotFound))
}

func TestWrap_KeepsExistingCause(t *testing.T) {
	first := fmt.Errorf("first")
	second := fmt.Errorf("second")

	err := NotFound.Wrap(first).Wrap(second)
	assert.True(t, Is(err, first))
	assert.True(t, Is(err, second))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestWithField_DoesNotShareFields(t *testing.T) {
	base := Unprocessable.WithField("required", "title", "The title field is required.")
	a := base.WithField("boolean", "completed", "The completed field must be true or false.")
	b := base.WithField("string", "description", "The description field must be a string.")

	require.Len(t, base.Fields, 1)
	assert.Equal(t, "completed", a.Fields[1].Field)
	assert.Equal(t, "description", b.Fields[1].Field)
	assert.Empty(t, Unprocessable.Fields)
}

func TestFieldMessages(t *testing.T) {
	err := Unprocessable.
		WithField("required", "title", "one").
		WithField("max", "title", "two").
		WithField("boolean", "completed", "three")

	assert.Equal(t, map[string][]string{
		"title":     {"one", "two"},
		"completed": {"three"},
	}, err.FieldMessages())
}

func TestError_String(t *testing.T) {
	err := NotFound.Explain("Task not found").Wrap(fmt.Errorf("record not found"))
	assert.Equal(t, "[Not Found] Task not found (Not Found\nrecord not found)", err.Error())
}
