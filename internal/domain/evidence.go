package domain

import (
	"encoding/json"
	"fmt"
)

// EvidenceKind tags the variant held by an EvidenceValue
type EvidenceKind int

const (
	EvidenceNumber EvidenceKind = iota
	EvidenceBool
	EvidenceString
	EvidenceMap
)

// EvidenceValue is a tagged-union value for indicator evidence maps.
// Indicators record heterogeneous observations (a reading, a flag, a label,
// or a nested breakdown) without resorting to interface{} soup.
type EvidenceValue struct {
	kind   EvidenceKind
	number float64
	flag   bool
	str    string
	nested map[string]EvidenceValue
}

// Evidence maps observation names to values for one indicator run
type Evidence map[string]EvidenceValue

// Num wraps a numeric observation
func Num(v float64) EvidenceValue {
	return EvidenceValue{kind: EvidenceNumber, number: v}
}

// Flag wraps a boolean observation
func Flag(v bool) EvidenceValue {
	return EvidenceValue{kind: EvidenceBool, flag: v}
}

// Str wraps a string observation
func Str(v string) EvidenceValue {
	return EvidenceValue{kind: EvidenceString, str: v}
}

// Nested wraps a sub-map of observations
func Nested(m map[string]EvidenceValue) EvidenceValue {
	return EvidenceValue{kind: EvidenceMap, nested: m}
}

// Kind returns the variant tag
func (v EvidenceValue) Kind() EvidenceKind { return v.kind }

// Number returns the numeric payload and whether the value holds one
func (v EvidenceValue) Number() (float64, bool) {
	return v.number, v.kind == EvidenceNumber
}

// Bool returns the boolean payload and whether the value holds one
func (v EvidenceValue) Bool() (bool, bool) {
	return v.flag, v.kind == EvidenceBool
}

// Text returns the string payload and whether the value holds one
func (v EvidenceValue) Text() (string, bool) {
	return v.str, v.kind == EvidenceString
}

// Map returns the nested payload and whether the value holds one
func (v EvidenceValue) Map() (map[string]EvidenceValue, bool) {
	return v.nested, v.kind == EvidenceMap
}

// MarshalJSON renders the underlying variant directly
func (v EvidenceValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case EvidenceNumber:
		return json.Marshal(v.number)
	case EvidenceBool:
		return json.Marshal(v.flag)
	case EvidenceString:
		return json.Marshal(v.str)
	case EvidenceMap:
		return json.Marshal(v.nested)
	default:
		return nil, fmt.Errorf("evidence value has unknown kind %d", v.kind)
	}
}

// UnmarshalJSON restores the variant from its JSON shape
func (v *EvidenceValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Num(num)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Str(s)
		return nil
	}
	var m map[string]EvidenceValue
	if err := json.Unmarshal(data, &m); err == nil {
		*v = Nested(m)
		return nil
	}
	return fmt.Errorf("evidence value: unsupported JSON shape %s", string(data))
}
