package validation_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/Aidin1998/taskapi/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldMessages(t *testing.T, err error) map[string][]string {
	t.Helper()
	var e *errors.Error
	require.True(t, errors.As(err, &e), "expected *errors.Error, got %T", err)
	assert.Equal(t, http.StatusUnprocessableEntity, errors.StatusOf(err))
	return e.FieldMessages()
}

func TestParseTaskRequest_Presence(t *testing.T) {
	req, err := validation.ParseTaskRequest([]byte(`{"title":"Learn X","description":null}`))
	require.NoError(t, err)

	assert.True(t, req.Has(validation.FieldTitle))
	assert.True(t, req.Has(validation.FieldDescription))
	assert.False(t, req.Has(validation.FieldCompleted))
	require.NotNil(t, req.Title)
	assert.Equal(t, "Learn X", *req.Title)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.Completed)
}

func TestParseTaskRequest_EmptyBody(t *testing.T) {
	req, err := validation.ParseTaskRequest(nil)
	require.NoError(t, err)
	assert.False(t, req.Has(validation.FieldTitle))
}

func TestParseTaskRequest_Malformed(t *testing.T) {
	for _, body := range []string{`{"title":`, `[]`, `"title"`} {
		_, err := validation.ParseTaskRequest([]byte(body))
		require.Error(t, err, body)
		assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err), body)
	}
}

func TestParseTaskRequest_TypeErrors(t *testing.T) {
	_, err := validation.ParseTaskRequest([]byte(`{"title":5,"description":[],"completed":"yes"}`))
	msgs := fieldMessages(t, err)

	assert.Equal(t, []string{"The title field must be a string."}, msgs["title"])
	assert.Equal(t, []string{"The description field must be a string."}, msgs["description"])
	assert.Equal(t, []string{"The completed field must be true or false."}, msgs["completed"])
}

func TestParseTaskRequest_BooleanForms(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `false`: false, `1`: true, `0`: false, `"1"`: true, `"0"`: false,
	}
	for raw, want := range cases {
		req, err := validation.ParseTaskRequest([]byte(`{"completed":` + raw + `}`))
		require.NoError(t, err, raw)
		require.NotNil(t, req.Completed, raw)
		assert.Equal(t, want, *req.Completed, raw)
	}

	_, err := validation.ParseTaskRequest([]byte(`{"completed":null}`))
	assert.Contains(t, fieldMessages(t, err), "completed")
}

func TestValidateCreate(t *testing.T) {
	v := validation.NewValidator()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"title":"Learn X","completed":false}`, ""},
		{"missing title", `{"description":"x"}`, "The title field is required."},
		{"null title", `{"title":null}`, "The title field is required."},
		{"empty title", `{"title":""}`, "The title field is required."},
		{"blank title", `{"title":"   "}`, "The title field is required."},
		{"255 chars", `{"title":"` + strings.Repeat("a", 255) + `"}`, ""},
		{"256 chars", `{"title":"` + strings.Repeat("a", 256) + `"}`, "The title field must not be greater than 255 characters."},
		{"255 runes", `{"title":"` + strings.Repeat("é", 255) + `"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := validation.ParseTaskRequest([]byte(tt.body))
			require.NoError(t, err)

			err = v.ValidateCreate(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.wantErr}, fieldMessages(t, err)["title"])
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := validation.NewValidator()

	req, err := validation.ParseTaskRequest([]byte(`{"completed":true}`))
	require.NoError(t, err)
	assert.NoError(t, v.ValidateUpdate(req), "absent title is allowed on update")

	req, err = validation.ParseTaskRequest([]byte(`{"title":null}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"The title field is required."}, fieldMessages(t, v.ValidateUpdate(req))["title"])

	req, err = validation.ParseTaskRequest([]byte(`{"title":"` + strings.Repeat("b", 256) + `"}`))
	require.NoError(t, err)
	assert.Contains(t, fieldMessages(t, v.ValidateUpdate(req)), "title")
}

func TestMerge_ReportsEachFieldOnce(t *testing.T) {
	v := validation.NewValidator()

	req, decodeErr := validation.ParseTaskRequest([]byte(`{"title":5,"completed":"maybe"}`))
	require.Error(t, decodeErr)

	msgs := fieldMessages(t, validation.Merge(decodeErr, v.ValidateCreate(req)))
	assert.Equal(t, []string{"The title field must be a string."}, msgs["title"])
	assert.Len(t, msgs["completed"], 1)
}
