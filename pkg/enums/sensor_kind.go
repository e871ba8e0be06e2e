package enums

import (
	"fmt"
	"strings"
)

// SensorKind identifies which water parameter a sensor measures.
type SensorKind string

const (
	SensorKindTemperature SensorKind = "temperatura"
	SensorKindPH          SensorKind = "ph"
	SensorKindAmmonia     SensorKind = "amonia"
)

var validSensorKinds = []SensorKind{
	SensorKindTemperature,
	SensorKindPH,
	SensorKindAmmonia,
}

// String implements fmt.Stringer.
func (k SensorKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known SensorKind.
func (k SensorKind) IsValid() bool {
	for _, candidate := range validSensorKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSensorKind converts raw input into a SensorKind. Input is normalized
// because sensor hardware historically reported free-text kinds.
func ParseSensorKind(value string) (SensorKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSensorKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sensor kind %q", value)
}

// SensorKinds returns the closed set of known kinds.
func SensorKinds() []SensorKind {
	out := make([]SensorKind, len(validSensorKinds))
	copy(out, validSensorKinds)
	return out
}
