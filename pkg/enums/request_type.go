package enums

import "fmt"

// RequestType is the informal weight classification of a request. Light
// requests are resolved by an admin; heavy requests need master approval.
type RequestType string

const (
	RequestTypeLight RequestType = "leve"
	RequestTypeHeavy RequestType = "pesada"
)

var validRequestTypes = []RequestType{
	RequestTypeLight,
	RequestTypeHeavy,
}

// String implements fmt.Stringer.
func (t RequestType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known RequestType.
func (t RequestType) IsValid() bool {
	for _, candidate := range validRequestTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseRequestType converts raw input into a RequestType.
func ParseRequestType(value string) (RequestType, error) {
	for _, candidate := range validRequestTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request type %q", value)
}
