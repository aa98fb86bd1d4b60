package api

import (
	"bytes"         // JSON literal checks
	"encoding/json" // JSON decoding
	"math"          // Finite checks
	"strconv"       // Numeric strings
	"strings"       // Trimming
)

// Number is a JSON field that accepts a number or a numeric string.
// Set reports whether the field was present and non-null; Valid whether it parsed.
type Number struct {
	Value float64
	Set   bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil // Treated as missing
	}
	n.Set = true
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil // Left invalid, reported by the handler
	}
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name"`     // Display name
	Email    string `json:"email"`    // Login key
	Password string `json:"password"` // Plaintext, hashed before storage
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`    // Login key
	Password string `json:"password"` // Plaintext credential
}

// CreateGoalRequest is the body of POST /api/goals
type CreateGoalRequest struct {
	Name         string  `json:"name"`          // Goal name
	TargetAmount Number  `json:"target_amount"` // Amount to save
	StartDate    *string `json:"start_date"`    // YYYY-MM-DD, optional
	TargetDate   *string `json:"target_date"`   // YYYY-MM-DD, optional
}

// DepositRequest is the body of POST /api/goals/:id/deposit
type DepositRequest struct {
	Amount Number `json:"amount"` // Deposit amount
}
