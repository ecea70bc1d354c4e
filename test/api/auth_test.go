package api_test

import (
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	email := uniqueEmail("doctor")

	resp := makeRequest("POST", "/auth/register", map[string]string{
		"name":     "Dr Test",
		"email":    email,
		"password": "s3cret-pass",
		"role":     "Doctor",
	}, "")
	if !resp.IsSuccess() {
		t.Fatalf("register failed: %s", resp.Message)
	}
	if resp.GetString("id") == "" {
		t.Error("register response missing id")
	}
	if resp.GetString("role") != "Doctor" {
		t.Errorf("expected role Doctor, got %s", resp.GetString("role"))
	}

	login(t, email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	email := registerUser(t, "dup", "Patient")

	resp := makeRequest("POST", "/auth/register", map[string]string{
		"name":     "Second",
		"email":    email,
		"password": "s3cret-pass",
		"role":     "Patient",
	}, "")
	if resp.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.Code)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	resp := makeRequest("POST", "/auth/register", map[string]string{
		"name":     "Nobody",
		"email":    uniqueEmail("badrole"),
		"password": "s3cret-pass",
		"role":     "Admin",
	}, "")
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid role, got %d", resp.Code)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	resp := makeRequest("POST", "/auth/register", map[string]string{
		"name":     "Shorty",
		"email":    uniqueEmail("short"),
		"password": "short",
		"role":     "Patient",
	}, "")
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", resp.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	email := registerUser(t, "wrongpw", "Patient")

	resp := makeRequest("POST", "/auth/login", map[string]string{
		"email":    email,
		"password": "not-the-password",
	}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.Code)
	}
}

func TestForgotPasswordIndistinguishable(t *testing.T) {
	email := registerUser(t, "forgot", "Patient")

	existing := makeRequest("POST", "/auth/forgot-password", map[string]string{"email": email}, "")
	missing := makeRequest("POST", "/auth/forgot-password", map[string]string{"email": uniqueEmail("ghost")}, "")

	if existing.Code != http.StatusOK || missing.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", existing.Code, missing.Code)
	}
	if existing.RawData != missing.RawData {
		t.Error("forgot-password responses differ between existing and unknown accounts")
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	resp := makeRequest("GET", "/doctors", nil, "")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.Code)
	}

	resp = makeRequest("GET", "/doctors", nil, "not-a-jwt")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", resp.Code)
	}
}
