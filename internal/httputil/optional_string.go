package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes absent, null and valued JSON fields
// (RFC 7396), a tri-state that *string cannot express. Nullable reference
// fields like parentId and projectId need it: omitting the field leaves the
// link alone, sending null clears it (a file with a null parentId moves to
// the root), and sending an ID re-links it.
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is null (clear the link)
//   - Present=true, Value=&id: field references id
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked when the field appears in the payload, which
// is what makes the Present flag trustworthy.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	// Check for JSON null
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	// Parse as string
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
