package models

import "time"

// APITarget selects which remote team-builder deployment a client talks to.
type APITarget string

const (
	APITargetProduction APITarget = "production"
	APITargetTesting    APITarget = "testing"
)

func (t APITarget) IsValid() bool {
	return t == APITargetProduction || t == APITargetTesting
}

type ClientPreference struct {
	ClientID  string    `json:"client_id" db:"client_id"`
	APITarget APITarget `json:"api_target" db:"api_target"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
