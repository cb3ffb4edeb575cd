package grader

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates the model returned something that does not
// decode into the requested JSON shape.
var ErrMalformedResponse = errors.New("malformed model response")

// decodeModelJSON decodes a model completion into v. Models often wrap JSON
// in markdown code fences; those are stripped before decoding so the
// boundary stays typed.
func decodeModelJSON(response string, v any) error {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
