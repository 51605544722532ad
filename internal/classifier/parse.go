package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// stripFences removes markdown code-fence wrapping from a model reply
func stripFences(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```JSON")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}

// decodeStrict parses a model reply into v. Unknown fields are tolerated,
// type mismatches and trailing garbage are not.
func decodeStrict(resp string, v interface{}) error {
	clean := stripFences(resp)
	if clean == "" {
		return errors.New("empty reply")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return errors.New("parse json: trailing data after object")
	}
	return nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
