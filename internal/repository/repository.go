// Package repository persists users, goals and deposits.
package repository

import (
	"context"                         // Request-scoped cancellation
	"errors"                          // Error matching
	"fmt"                             // Error wrapping
	"savings_tracker/internal/domain" // Importing domain models
	"time"                            // Deposit dates

	"gorm.io/gorm" // GORM ORM library
)

const duplicateEmail = "A user with that email already exists"

// Users is the capability set the auth handlers need
type Users interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Goals is the capability set the goal handlers need
type Goals interface {
	ListGoals(ctx context.Context) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) error
	GetGoal(ctx context.Context, id uint) (*domain.Goal, error)
	Deposit(ctx context.Context, goalID uint, amount float64) (*domain.Goal, *domain.Transaction, error)
	ListTransactions(ctx context.Context, goalID uint) ([]domain.Transaction, error)
}

// Store implements Users and Goals on top of GORM
type Store struct {
	db  *gorm.DB         // Database handle
	now func() time.Time // Clock used for deposit dates
}

// NewStore returns a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateUser inserts a new user, failing with a conflict on a duplicate email
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	db := s.db.WithContext(ctx)
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflict(duplicateEmail)
		}
		// Not every driver translates unique violations
		var count int64
		if cerr := db.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; cerr == nil && count > 0 {
			return domain.Conflict(duplicateEmail)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindUserByEmail looks a user up by login key
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ListGoals returns every goal ordered by id
func (s *Store) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := s.db.WithContext(ctx).Order("id asc").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// CreateGoal inserts a goal with a zero running total
func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	goal.CurrentAmount = 0
	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GetGoal loads a goal by id
func (s *Store) GetGoal(ctx context.Context, id uint) (*domain.Goal, error) {
	return getGoal(s.db.WithContext(ctx), id)
}

// Deposit records a transaction and increments the goal's running total in
// one database transaction. The increment is evaluated by the database, so
// concurrent deposits on the same goal never lose an update.
func (s *Store) Deposit(ctx context.Context, goalID uint, amount float64) (*domain.Goal, *domain.Transaction, error) {
	var (
		goal *domain.Goal
		txn  domain.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Increment goal balance
		res := tx.Model(&domain.Goal{}).Where("id = ?", goalID).
			Update("current_amount", gorm.Expr("current_amount + ?", amount))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Goal not found")
		}
		// Create transaction record
		txn = domain.Transaction{
			Amount: amount,                 // Deposit amount
			Date:   truncateToDay(s.now()), // Deposit day
			GoalID: goalID,                 // Owning goal
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err // Return error to rollback
		}
		// Read back the updated total
		g, err := getGoal(tx, goalID)
		if err != nil {
			return err
		}
		goal = g
		return nil // Commit transaction
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}
	return goal, &txn, nil
}

// ListTransactions returns the deposits of a goal, newest first
func (s *Store) ListTransactions(ctx context.Context, goalID uint) ([]domain.Transaction, error) {
	db := s.db.WithContext(ctx)
	if _, err := getGoal(db, goalID); err != nil {
		return nil, err
	}
	var txns []domain.Transaction
	if err := db.Where("goal_id = ?", goalID).Order("id desc").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func getGoal(db *gorm.DB, id uint) (*domain.Goal, error) {
	var goal domain.Goal
	if err := db.First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Goal not found")
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
