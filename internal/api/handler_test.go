package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"savings_tracker/internal/domain"
	"savings_tracker/internal/repository"
	"savings_tracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := repository.NewStore(testutil.NewSQLite(t))
	return NewRouter(Deps{
		Users:          store,
		Goals:          store,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         quietLogger(),
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodPost, "/api/auth/register", `{"name":" Ada ","email":"Ada@Example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotEmpty(t, user["created_at"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "argon2")

	w, body = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, user["id"], body["user"].(map[string]any)["id"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newTestRouter(t)

	w, _ := do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"one"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, body := range []string{
		`{"name":"Ada","email":"ada@example.com","password":"one"}`,
		`{"name":"Grace","email":"ADA@example.com","password":"two"}`,
	} {
		w, resp := do(t, r, http.MethodPost, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "A user with that email already exists", resp["error"])
	}
}

func TestRegister_Validation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.c","password":"pw"}`},
		{"blank name", `{"name":"   ","email":"a@b.c","password":"pw"}`},
		{"missing email", `{"name":"A","password":"pw"}`},
		{"missing password", `{"name":"A","email":"a@b.c"}`},
		{"malformed json", `{"name":`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	r := newTestRouter(t)
	w, _ := do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"right"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, wrongPw := do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, unknown := do(t, r, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"right"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Both failures look identical to the caller
	assert.Equal(t, "Invalid email or password", wrongPw["error"])
	assert.Equal(t, wrongPw, unknown)

	w, _ = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGoal(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodPost, "/api/goals", `{"name":"Vacation","target_amount":"2500","start_date":"2024-01-01","target_date":"2024-12-31"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := body["goal"].(map[string]any)
	assert.Equal(t, "Vacation", goal["name"])
	assert.Equal(t, 2500.0, goal["target_amount"])
	assert.Equal(t, 0.0, goal["current_amount"])
	assert.Equal(t, 0.0, goal["progress"])
	assert.Equal(t, "2024-01-01", goal["start_date"])
	assert.Equal(t, "2024-12-31", goal["target_date"])
}

func TestCreateGoal_DefaultsStartDate(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodPost, "/api/goals", `{"name":"Laptop","target_amount":1200}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := body["goal"].(map[string]any)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, goal["start_date"])
	assert.Nil(t, goal["target_date"])
}

func TestCreateGoal_Validation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing name", `{"target_amount":10}`, "name and target_amount are required"},
		{"blank name", `{"name":" ","target_amount":10}`, "name and target_amount are required"},
		{"missing target", `{"name":"X"}`, "name and target_amount are required"},
		{"null target", `{"name":"X","target_amount":null}`, "name and target_amount are required"},
		{"non-numeric target", `{"name":"X","target_amount":"lots"}`, "target_amount must be a number"},
		{"boolean target", `{"name":"X","target_amount":true}`, "target_amount must be a number"},
		{"zero target", `{"name":"X","target_amount":0}`, "target_amount must be positive"},
		{"bad start date", `{"name":"X","target_amount":10,"start_date":"01/02/2024"}`, "start_date must be in YYYY-MM-DD format"},
		{"bad target date", `{"name":"X","target_amount":10,"target_date":"2024-02-31"}`, "target_date must be in YYYY-MM-DD format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/api/goals", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}

	w, body := do(t, r, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["goals"])
}

func createGoal(t *testing.T, r http.Handler, name string, target float64) float64 {
	t.Helper()
	w, body := do(t, r, http.MethodPost, "/api/goals", fmt.Sprintf(`{"name":%q,"target_amount":%v}`, name, target))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["goal"].(map[string]any)["id"].(float64)
}

func deposit(t *testing.T, r http.Handler, id float64, amount string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return do(t, r, http.MethodPost, fmt.Sprintf("/api/goals/%d/deposit", int(id)), `{"amount":`+amount+`}`)
}

func TestDeposit_RunningTotal(t *testing.T) {
	r := newTestRouter(t)
	id := createGoal(t, r, "Emergency", 100)

	var last map[string]any
	for _, amount := range []string{"10", "25.5", `"4.5"`} {
		w, body := deposit(t, r, id, amount)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		txn := body["transaction"].(map[string]any)
		assert.Equal(t, id, txn["goal_id"])
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, txn["date"])
		last = body["goal"].(map[string]any)
	}
	assert.Equal(t, 40.0, last["current_amount"])
	assert.Equal(t, 40.0, last["progress"])

	w, body := do(t, r, http.MethodGet, fmt.Sprintf("/api/goals/%d/transactions", int(id)), "")
	require.Equal(t, http.StatusOK, w.Code)
	txns := body["transactions"].([]any)
	require.Len(t, txns, 3)
	assert.Equal(t, 4.5, txns[0].(map[string]any)["amount"])
}

func TestDeposit_RejectsNonPositive(t *testing.T) {
	r := newTestRouter(t)
	id := createGoal(t, r, "Bike", 300)
	w, _ := deposit(t, r, id, "50")
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		amount  string
		wantErr string
	}{
		{"0", "amount must be positive"},
		{"-5", "amount must be positive"},
		{`"abc"`, "amount must be a number"},
		{"null", "amount is required"},
		{`{}`, "amount must be a number"},
	}
	for _, tt := range tests {
		w, body := deposit(t, r, id, tt.amount)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.amount)
		assert.Equal(t, tt.wantErr, body["error"], tt.amount)
	}

	w, body := do(t, r, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, body["goals"].([]any)[0].(map[string]any)["current_amount"])
}

func TestDeposit_UnknownGoal(t *testing.T) {
	r := newTestRouter(t)
	id := createGoal(t, r, "Real", 10)

	for _, path := range []string{"/api/goals/999/deposit", "/api/goals/abc/deposit", "/api/goals/0/deposit"} {
		w, body := do(t, r, http.MethodPost, path, `{"amount":5}`)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "Goal not found", body["error"], path)
	}

	w, body := do(t, r, http.MethodGet, fmt.Sprintf("/api/goals/%d/transactions", int(id)), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["transactions"])

	w, _ = do(t, r, http.MethodGet, "/api/goals/999/transactions", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListGoals_TotalSavings(t *testing.T) {
	r := newTestRouter(t)
	a := createGoal(t, r, "A", 100)
	b := createGoal(t, r, "B", 200)

	w, body := do(t, r, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, body["total_savings"])

	deposit(t, r, a, "12.25")
	deposit(t, r, b, "30")
	deposit(t, r, b, "7.75")

	w, body = do(t, r, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, w.Code)
	goals := body["goals"].([]any)
	require.Len(t, goals, 2)
	var sum float64
	for _, g := range goals {
		sum += g.(map[string]any)["current_amount"].(float64)
	}
	assert.Equal(t, 50.0, body["total_savings"])
	assert.Equal(t, sum, body["total_savings"])
}

func TestDeposit_ConcurrentRequests(t *testing.T) {
	r := newTestRouter(t)
	id := createGoal(t, r, "Shared", 1000)

	var wg sync.WaitGroup
	codes := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(amount string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/goals/%d/deposit", int(id)), bytes.NewBufferString(`{"amount":`+amount+`}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes <- w.Code
		}(map[bool]string{true: "3", false: "4"}[i%2 == 0])
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusCreated, code)
	}

	_, body := do(t, r, http.MethodGet, "/api/goals", "")
	assert.Equal(t, 35.0, body["total_savings"])
}

func TestCORS_Preflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/register", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

// failingStore simulates a storage outage.
type failingStore struct{}

var errDown = errors.New("dial tcp 10.0.0.5:3306: connection refused")

func (failingStore) CreateUser(context.Context, *domain.User) error { return errDown }
func (failingStore) FindUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, errDown
}
func (failingStore) ListGoals(context.Context) ([]domain.Goal, error) { return nil, errDown }
func (failingStore) CreateGoal(context.Context, *domain.Goal) error { return errDown }
func (failingStore) GetGoal(context.Context, uint) (*domain.Goal, error) { return nil, errDown }
func (failingStore) Deposit(context.Context, uint, float64) (*domain.Goal, *domain.Transaction, error) {
	return nil, nil, errDown
}
func (failingStore) ListTransactions(context.Context, uint) ([]domain.Transaction, error) {
	return nil, errDown
}

func TestStorageFailureIsGeneric(t *testing.T) {
	r := NewRouter(Deps{Users: failingStore{}, Goals: failingStore{}, Logger: quietLogger()})

	requests := []struct{ method, path, body string }{
		{http.MethodGet, "/api/goals", ""},
		{http.MethodPost, "/api/goals", `{"name":"X","target_amount":5}`},
		{http.MethodPost, "/api/goals/1/deposit", `{"amount":5}`},
		{http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"pw"}`},
		{http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@b.c","password":"pw"}`},
	}
	for _, rq := range requests {
		w, body := do(t, r, rq.method, rq.path, rq.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, rq.path)
		assert.Equal(t, "internal server error", body["error"], rq.path)
		assert.NotContains(t, w.Body.String(), "10.0.0.5", rq.path)
	}
}
