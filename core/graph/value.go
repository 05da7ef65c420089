package graph

import (
	"encoding/json"
	"time"
)

// ValueKind discriminates the scalar variants a metadata value can hold.
type ValueKind int

const (
	ValueString ValueKind = 0
	ValueNumber ValueKind = 1
	ValueBool   ValueKind = 2
	ValueTime   ValueKind = 3
)

// Value is a small scalar variant used for node metadata and attributes.
// Keeping the variant closed (string/number/bool/timestamp) means snapshots
// always round-trip through JSON without type surprises.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a float64.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// IntValue wraps an int as a number.
func IntValue(n int) Value { return Value{Kind: ValueNumber, Num: float64(n)} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// TimeValue wraps a timestamp.
func TimeValue(t time.Time) Value { return Value{Kind: ValueTime, Time: t} }

// AsNumber returns the numeric payload, or 0 for non-number kinds.
func (v Value) AsNumber() float64 {
	if v.Kind != ValueNumber {
		return 0
	}
	return v.Num
}

// AsString returns the string payload, or "" for non-string kinds.
func (v Value) AsString() string {
	if v.Kind != ValueString {
		return ""
	}
	return v.Str
}

// AsBool returns the bool payload, or false for non-bool kinds.
func (v Value) AsBool() bool {
	if v.Kind != ValueBool {
		return false
	}
	return v.Bool
}

// MarshalJSON serializes the active variant directly, so metadata maps export
// as plain JSON scalars.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueTime:
		return json.Marshal(v.Time)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON restores a variant from a plain JSON scalar. Timestamps are
// recognized by RFC 3339 shape before falling back to string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = NumberValue(num)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*v = TimeValue(t)
		return nil
	}
	*v = StringValue(s)
	return nil
}
