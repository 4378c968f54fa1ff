package style

import (
	"encoding/json"
	"fmt"
)

// FormatError reports a malformed settings record. It is non-fatal:
// the caller's current style is left untouched.
type FormatError struct {
	Msg   string
	Cause error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("settings format: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("settings format: %s", e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// settingsRecord mirrors the transport shape with pointer fields so
// missing keys are distinguishable from zero values.
type settingsRecord struct {
	Color           *string  `json:"color"`
	BackgroundColor *string  `json:"backgroundColor"`
	Size            *float64 `json:"size"`
}

// Import parses an exported settings record. All three fields must be
// present and well-typed; anything else fails with a FormatError and
// returns the zero Style.
func Import(data []byte) (Style, error) {
	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Style{}, &FormatError{Msg: "invalid json", Cause: err}
	}
	if rec.Color == nil {
		return Style{}, &FormatError{Msg: "missing field: color"}
	}
	if rec.BackgroundColor == nil {
		return Style{}, &FormatError{Msg: "missing field: backgroundColor"}
	}
	if rec.Size == nil {
		return Style{}, &FormatError{Msg: "missing field: size"}
	}
	s := Style{Color: *rec.Color, BackgroundColor: *rec.BackgroundColor, Size: *rec.Size}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	return s, nil
}

// Export serializes the style as the transport record.
func Export(s Style) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
