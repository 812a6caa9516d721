package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	userdomain "github.com/AlibekovAA/memorize-api/internal/user/domain"
)

var jsonNull = []byte("null")

// parseUpdateFields keeps only the editable keys of an edit body. id,
// password and any unknown key are dropped.
func parseUpdateFields(body map[string]json.RawMessage) (userdomain.UpdateFields, error) {
	var fields userdomain.UpdateFields

	if raw, ok := body["name"]; ok {
		name, err := decodeString("name", raw)
		if err != nil {
			return userdomain.UpdateFields{}, err
		}
		fields.Name = &name
	}

	if raw, ok := body["email"]; ok {
		email, err := decodeString("email", raw)
		if err != nil {
			return userdomain.UpdateFields{}, err
		}
		fields.Email = &email
	}

	if raw, ok := body["memorize"]; ok {
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			return userdomain.UpdateFields{}, fmt.Errorf("memorize must be an array")
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return userdomain.UpdateFields{}, fmt.Errorf("memorize must be an array: %w", err)
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		fields.Memorize = &items
	}

	return fields, nil
}

func decodeString(key string, raw json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", fmt.Errorf("%s must be a string", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", key, err)
	}
	return s, nil
}
