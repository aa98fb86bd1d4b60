package domain

import (
	"math" // Rounding
	"time" // Calendar dates
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Goal Model
type Goal struct {
	ID            uint          `gorm:"primaryKey"`                   // Primary key
	Name          string        `gorm:"size:120;not null"`            // Goal name
	TargetAmount  float64       `gorm:"not null"`                     // Amount to save
	CurrentAmount float64       `gorm:"not null;default:0"`           // Sum of all deposits
	StartDate     *time.Time    `gorm:"type:date"`                    // First day of saving
	TargetDate    *time.Time    `gorm:"type:date"`                    // Deadline, optional
	Transactions  []Transaction `gorm:"constraint:OnDelete:CASCADE;"` // One goal owns many deposits
}

// GoalResponse is the public representation of a goal
type GoalResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Progress      float64 `json:"progress"`
	StartDate     *string `json:"start_date"`
	TargetDate    *string `json:"target_date"`
}

// Progress returns how much of the target is saved, as a percentage in [0, 100]
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := g.CurrentAmount / g.TargetAmount * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

// Public returns the goal as served over the API
func (g Goal) Public() GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		StartDate:     formatDate(g.StartDate),
		TargetDate:    formatDate(g.TargetDate),
	}
}

// TotalSavings sums current_amount across goals
func TotalSavings(goals []Goal) float64 {
	var total float64
	for _, g := range goals {
		total += g.CurrentAmount
	}
	return total
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
