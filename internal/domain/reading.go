package domain

import "time"

// Reading is one recorded value of a panel's field.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// NewReading creates a reading stamped with the current time.
func NewReading(value float64) Reading {
	return Reading{Timestamp: time.Now(), Value: value}
}
