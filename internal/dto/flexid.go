package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID decodes a numeric identifier that may arrive as a JSON number or a
// JSON string ("42"). Non-integer values are rejected at decode time, before
// any persistence work begins.
type FlexID int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("identifier %q is not an integer", raw)
	}
	*f = FlexID(n)
	return nil
}

// Int64 returns the decoded identifier.
func (f FlexID) Int64() int64 {
	return int64(f)
}

// Ptr returns a pointer to the identifier, or nil when the receiver is nil.
func (f *FlexID) Ptr() *int64 {
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}
