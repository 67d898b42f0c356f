package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError is a user-facing validation failure.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

const (
	msgRunningInvalid = "All inputs have to be positive numbers!"
	msgCyclingInvalid = "Inputs have to be positive numbers!"
)

// ValidNumbers reports whether every value is finite.
func ValidNumbers(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AllPositive reports whether every value is strictly greater than zero.
func AllPositive(vs ...float64) bool {
	for _, v := range vs {
		if !(v > 0) {
			return false
		}
	}
	return true
}

// ValidateRunning checks running inputs: all finite and positive.
func ValidateRunning(distance, duration, cadence float64) error {
	if !ValidNumbers(distance, duration, cadence) || !AllPositive(distance, duration, cadence) {
		return &InputError{Message: msgRunningInvalid}
	}
	return nil
}

// ValidateCycling checks cycling inputs. Elevation gain only has to be finite;
// it may be zero or negative.
func ValidateCycling(distance, duration, elevation float64) error {
	if !ValidNumbers(distance, duration, elevation) || !AllPositive(distance, duration) {
		return &InputError{Message: msgCyclingInvalid}
	}
	return nil
}

// ParseInput converts raw form text to a number. Blank input is 0 and
// anything unparsable is NaN, so validation rejects it rather than the parser.
func ParseInput(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
