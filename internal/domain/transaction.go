package domain

import "time" // Calendar dates

// Transaction Model
type Transaction struct {
	ID     uint      `gorm:"primaryKey"`         // Primary key
	Amount float64   `gorm:"not null"`           // Deposited amount, always positive
	Date   time.Time `gorm:"type:date;not null"` // Day of the deposit
	GoalID uint      `gorm:"index;not null"`     // Foreign key to the owning Goal
}

// TransactionResponse is the public representation of a deposit
type TransactionResponse struct {
	ID     uint    `json:"id"`      // Transaction ID
	Amount float64 `json:"amount"`  // Deposited amount
	Date   string  `json:"date"`    // YYYY-MM-DD
	GoalID uint    `json:"goal_id"` // Owning goal
}

// Public returns the transaction as served over the API
func (t Transaction) Public() TransactionResponse {
	return TransactionResponse{
		ID:     t.ID,
		Amount: t.Amount,
		Date:   t.Date.Format(DateLayout),
		GoalID: t.GoalID,
	}
}
