package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Aidin1998/taskapi/pkg/errors"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// TaskRequest is a decoded task body. Pointer fields are nil when the key was absent or null;
// Has reports whether the key appeared at all.
type TaskRequest struct {
	Title       *string `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`

	present map[string]bool
}

// Has reports whether field was supplied in the request body, even as null
func (r *TaskRequest) Has(field string) bool {
	return r.present[field]
}

// ParseTaskRequest decodes body key by key so that every mistyped field is reported,
// not just the first one.
func ParseTaskRequest(body []byte) (*TaskRequest, error) {
	req := &TaskRequest{present: map[string]bool{}}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return req, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Invalid.Explain("Malformed JSON body").Wrap(err)
	}

	verr := errors.Unprocessable.Explain("Validation failed")
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		switch key {
		case FieldTitle:
			req.present[key] = true
			s, err := decodeNullableString(value)
			if err != nil {
				verr = verr.WithField("string", key, fmt.Sprintf("The %s field must be a string.", key))
				continue
			}
			req.Title = s
		case FieldDescription:
			req.present[key] = true
			s, err := decodeNullableString(value)
			if err != nil {
				verr = verr.WithField("string", key, fmt.Sprintf("The %s field must be a string.", key))
				continue
			}
			req.Description = s
		case FieldCompleted:
			req.present[key] = true
			b, ok := decodeBoolean(value)
			if !ok {
				verr = verr.WithField("boolean", key, fmt.Sprintf("The %s field must be true or false.", key))
				continue
			}
			req.Completed = &b
		}
	}

	if len(verr.Fields) > 0 {
		return req, verr
	}
	return req, nil
}

// ValidateCreate applies the rules for a new task: title is mandatory.
func (v *Validator) ValidateCreate(req *TaskRequest) error {
	return v.ValidateStruct(req)
}

// ValidateUpdate applies the title rules only when the title key was supplied.
func (v *Validator) ValidateUpdate(req *TaskRequest) error {
	if !req.Has(FieldTitle) {
		return nil
	}
	return v.ValidateStruct(req)
}

// Merge combines a decode error with rule errors so the client sees every failing field once.
func Merge(decodeErr, ruleErr error) error {
	if decodeErr == nil {
		return ruleErr
	}
	if ruleErr == nil {
		return decodeErr
	}

	var d, r *errors.Error
	if !errors.As(decodeErr, &d) || !errors.As(ruleErr, &r) {
		return decodeErr
	}

	seen := map[string]bool{}
	for _, f := range d.Fields {
		seen[f.Field] = true
	}
	merged := d
	for _, f := range r.Fields {
		if !seen[f.Field] {
			merged = merged.WithField(f.Kind, f.Field, f.Message)
		}
	}
	return merged
}

func decodeNullableString(raw json.RawMessage) (*string, error) {
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeBoolean accepts true, false, 1, 0, "1" and "0".
func decodeBoolean(raw json.RawMessage) (bool, bool) {
	switch string(raw) {
	case "true", "1", `"1"`:
		return true, true
	case "false", "0", `"0"`:
		return false, true
	default:
		return false, false
	}
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
