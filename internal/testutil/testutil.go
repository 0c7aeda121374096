// Package testutil holds helpers shared by handler and repository tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"bookreview/db"
	"bookreview/internal/auth"
	"bookreview/internal/platform/postgres"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// OpenTestDB connects to TEST_DB_DSN, applies the migrations and empties
// every table. The test is skipped when no database is configured or
// reachable. Packages sharing one database must run with -p 1.
func OpenTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, dsn, 2*time.Second)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.NewMigrator(db.Migrations, db.MigrationsDir).Up(ctx, pool); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE reviews, books, users CASCADE"); err != nil {
		t.Fatalf("truncate test database: %v", err)
	}
	return pool
}

var userSeq atomic.Int64

// InsertUser stores a user directly and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	n := userSeq.Add(1)
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@example.com", n),
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// InsertBook stores a minimal book owned by ownerID and returns its id.
func InsertBook(t *testing.T, pool *pgxpool.Pool, ownerID, title, author string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO books (title, author, genre, description, created_by)
		 VALUES ($1, $2, 'Fiction', 'test', $3) RETURNING id`,
		title, author, ownerID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return id
}

// GenerateTestToken signs a token for userID with TestSecret.
func GenerateTestToken(userID string) string {
	token, _ := auth.GenerateToken(TestSecret, userID, time.Hour)
	return token
}

// GenerateExpiredToken signs a token for userID that expired an hour ago.
func GenerateExpiredToken(userID string) string {
	c := auth.Claims{
		Sub: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(TestSecret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorded response body.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
