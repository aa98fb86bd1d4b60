package api

import (
	"net/http"                            // HTTP status codes
	"savings_tracker/internal/domain"     // Importing domain models
	"savings_tracker/internal/repository" // Persistence
	"strconv"                             // String conversion
	"strings"                             // String manipulation
	"time"                                // Default start date

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ListGoalsHandler returns every goal and the sum of their running totals
func ListGoalsHandler(goals repository.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := goals.ListGoals(c.Request.Context()) // Fetch all goals
		if err != nil {
			writeError(c, err, "list_goals")
			return
		}
		resp := make([]domain.GoalResponse, len(list)) // Map goals to response format
		for i, g := range list {
			resp[i] = g.Public()
		}
		c.JSON(http.StatusOK, gin.H{
			"total_savings": domain.TotalSavings(list), // Recomputed on every call
			"goals":         resp,                      // List of goals
		})
	}
}

// CreateGoalHandler creates a goal with a zero running total
func CreateGoalHandler(goals repository.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGoalRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		goal, err := req.toGoal(time.Now())
		if err != nil {
			writeError(c, err, "create_goal")
			return
		}
		// Save the new goal
		if err := goals.CreateGoal(c.Request.Context(), goal); err != nil {
			writeError(c, err, "create_goal")
			return
		}
		// Log successful goal creation
		logrus.WithFields(logrus.Fields{
			"goal_id":       goal.ID,           // Goal ID
			"target_amount": goal.TargetAmount, // Target amount
		}).Info("Goal created")
		c.JSON(http.StatusCreated, gin.H{"goal": goal.Public()}) // Return the created goal
	}
}

// toGoal validates the request and builds the goal to insert
func (r CreateGoalRequest) toGoal(now time.Time) (*domain.Goal, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" || !r.TargetAmount.Set {
		return nil, domain.Validation("name and target_amount are required")
	}
	if !r.TargetAmount.Valid {
		return nil, domain.Validation("target_amount must be a number")
	}
	if r.TargetAmount.Value <= 0 {
		return nil, domain.Validation("target_amount must be positive")
	}
	goal := &domain.Goal{Name: name, TargetAmount: r.TargetAmount.Value}

	start, err := optionalDate(r.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	if start == nil {
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		start = &today // Saving starts today unless told otherwise
	}
	goal.StartDate = start

	if goal.TargetDate, err = optionalDate(r.TargetDate, "target_date"); err != nil {
		return nil, err
	}
	return goal, nil
}

// optionalDate parses a YYYY-MM-DD field; absent and empty values yield nil
func optionalDate(s *string, field string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Validation(field + " must be in YYYY-MM-DD format")
	}
	return &t, nil
}

// parseGoalID reads the :id path parameter; anything that is not a positive integer is an unknown goal
func parseGoalID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NotFound("Goal not found")
	}
	return uint(id), nil
}

// DepositHandler records a deposit and increments the goal's running total
func DepositHandler(goals repository.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		goalID, err := parseGoalID(c)
		if err != nil {
			writeError(c, err, "deposit")
			return
		}
		// Unknown goals are reported before the body is looked at
		if _, err := goals.GetGoal(c.Request.Context(), goalID); err != nil {
			writeError(c, err, "deposit")
			return
		}
		var req DepositRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		switch {
		case !req.Amount.Set:
			writeError(c, domain.Validation("amount is required"), "deposit")
			return
		case !req.Amount.Valid:
			writeError(c, domain.Validation("amount must be a number"), "deposit")
			return
		case req.Amount.Value <= 0:
			writeError(c, domain.Validation("amount must be positive"), "deposit")
			return
		}
		// Insert the transaction and increment the total atomically
		goal, txn, err := goals.Deposit(c.Request.Context(), goalID, req.Amount.Value)
		if err != nil {
			writeError(c, err, "deposit")
			return
		}
		// Log successful deposit
		logrus.WithFields(logrus.Fields{
			"goal_id":        goalID,             // Goal ID
			"transaction_id": txn.ID,             // Transaction ID
			"amount":         txn.Amount,         // Deposit amount
			"current_amount": goal.CurrentAmount, // New running total
		}).Info("Deposit transaction")
		c.JSON(http.StatusCreated, gin.H{
			"goal":        goal.Public(), // Updated goal
			"transaction": txn.Public(),  // New transaction
		})
	}
}

// ListTransactionsHandler returns a goal's deposits, newest first
func ListTransactionsHandler(goals repository.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		goalID, err := parseGoalID(c)
		if err != nil {
			writeError(c, err, "list_transactions")
			return
		}
		txns, err := goals.ListTransactions(c.Request.Context(), goalID)
		if err != nil {
			writeError(c, err, "list_transactions")
			return
		}
		resp := make([]domain.TransactionResponse, len(txns)) // Map transactions to response format
		for i, t := range txns {
			resp[i] = t.Public()
		}
		c.JSON(http.StatusOK, gin.H{"transactions": resp})
	}
}
