package api_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

var emailSeq int64

// Helper to generate unique emails across a test run
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@example.com", prefix, time.Now().UnixNano(), atomic.AddInt64(&emailSeq, 1))
}

// Helper to register a user and return their email
func registerUser(t *testing.T, prefix, role string) string {
	t.Helper()

	email := uniqueEmail(prefix)
	resp := makeRequest("POST", "/auth/register", map[string]string{
		"name":     "Test " + prefix,
		"email":    email,
		"password": "s3cret-pass",
		"role":     role,
	}, "")
	if !resp.IsSuccess() {
		t.Fatalf("failed to register %s: %s", role, resp.Message)
	}
	return email
}

// Helper to log in and return the bearer token
func login(t *testing.T, email string) string {
	t.Helper()

	resp := makeRequest("POST", "/auth/login", map[string]string{
		"email":    email,
		"password": "s3cret-pass",
	}, "")
	if !resp.IsSuccess() {
		t.Fatalf("failed to login %s: %s", email, resp.Message)
	}

	token := resp.GetString("access_token")
	if token == "" {
		t.Fatal("login response missing access_token")
	}
	return token
}

// Helper to open an availability window for a doctor
func setAvailability(t *testing.T, token string, start, end time.Time) TestResponse {
	t.Helper()

	return makeRequest("POST", "/doctors/availability", map[string]string{
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}, token)
}
