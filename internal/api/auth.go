package api

import (
	"errors"                              // Error matching
	"net/http"                            // HTTP status codes
	"savings_tracker/internal/auth"       // Password hashing
	"savings_tracker/internal/domain"     // Importing domain models
	"savings_tracker/internal/repository" // Persistence
	"strings"                             // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// invalidCredentials is returned for both unknown emails and wrong passwords
const invalidCredentials = "Invalid email or password"

// normalizeEmail makes email comparison case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterHandler creates a user account
func RegisterHandler(users repository.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		name := strings.TrimSpace(req.Name) // Trim display name
		email := normalizeEmail(req.Email)  // Normalize login key
		if name == "" || email == "" || req.Password == "" {
			writeError(c, domain.Validation("name, email and password are required"), "register")
			return
		}
		// Reject duplicates before paying for the hash
		if _, err := users.FindUserByEmail(c.Request.Context(), email); err == nil {
			writeError(c, domain.Conflict("A user with that email already exists"), "register")
			return
		} else if !errors.Is(err, domain.ErrNotFound) {
			writeError(c, err, "register")
			return
		}
		// Hash the password and create the user
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(c, err, "register")
			return
		}
		user := domain.User{Name: name, Email: email, PasswordHash: hash}
		// Unique index catches concurrent registrations of the same email
		if err := users.CreateUser(c.Request.Context(), &user); err != nil {
			writeError(c, err, "register")
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // New user ID
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"user": user.Public()}) // Return the public user
	}
}

// LoginHandler confirms a user's credentials
func LoginHandler(users repository.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		email := normalizeEmail(req.Email) // Normalize login key
		if email == "" || req.Password == "" {
			writeError(c, domain.Validation("email and password are required"), "login")
			return
		}
		user, err := users.FindUserByEmail(c.Request.Context(), email) // Fetch user from database
		if errors.Is(err, domain.ErrNotFound) {
			// Same message as a wrong password
			writeError(c, domain.Unauthorized(invalidCredentials), "login")
			return
		} else if err != nil {
			writeError(c, err, "login")
			return
		}
		// Compare provided password with stored hash
		ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Affected user
				"error":   err.Error(), // Hash problem
			}).Warn("Stored password hash is unreadable")
		}
		if !ok {
			writeError(c, domain.Unauthorized(invalidCredentials), "login")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Public()}) // Return the public user
	}
}
