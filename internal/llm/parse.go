package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Completion responses arrive as free-form text. A JSON object may be
// wrapped in a fenced code block, appear bare, or sit inside surrounding
// prose. The fenced form is tried first since it is the least ambiguous.
var (
	fencedJSONPattern = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(\{[\s\S]*\})`)
)

// ExtractJSONObject finds a JSON object in text and unmarshals it into v.
// Returns an error only when no parsable object exists anywhere in the
// text; callers treat that the same as a failed call.
func ExtractJSONObject(text string, v any) error {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}

	if m := bareJSONPattern.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON object found in response")
}
