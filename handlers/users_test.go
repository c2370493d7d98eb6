// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PoojithGuntaka/CivicConnect/auth"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/testutil"
)

func TestLogin(t *testing.T) {
	handler := NewAuthHandler(testutil.TestSalt)

	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedRole   string
		expectedName   string
	}{
		{"citizen", models.LoginRequest{Email: "jane@city.gov"}, http.StatusOK, models.RoleCitizen, "jane"},
		{"admin email is official", models.LoginRequest{Email: "Admin.Ops@city.gov", Name: "Ops"}, http.StatusOK, models.RoleOfficial, "Ops"},
		{"missing email", models.LoginRequest{Name: "Nobody"}, http.StatusBadRequest, "", ""},
		{"malformed email", models.LoginRequest{Email: "jane"}, http.StatusBadRequest, "", ""},
		{"invalid json", "jane@city.gov", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.AuthResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.User.Role != tt.expectedRole {
				t.Errorf("Expected role %s, got %s", tt.expectedRole, resp.User.Role)
			}
			if resp.User.Name != tt.expectedName {
				t.Errorf("Expected name %s, got %s", tt.expectedName, resp.User.Name)
			}

			user, err := auth.ParseToken(resp.SessionToken, testutil.TestSalt)
			if err != nil {
				t.Fatalf("Session token did not verify: %v", err)
			}
			if user != resp.User {
				t.Errorf("Token carries %+v, response has %+v", user, resp.User)
			}
		})
	}
}

func TestSignup(t *testing.T) {
	handler := NewAuthHandler(testutil.TestSalt)

	tests := []struct {
		name           string
		body           models.SignupRequest
		expectedStatus int
		expectedRole   string
	}{
		{"default role", models.SignupRequest{Email: "admin@city.gov", Name: "Sam"}, http.StatusOK, models.RoleCitizen},
		{"official requested", models.SignupRequest{Email: "sam@city.gov", Name: "Sam", Role: models.RoleOfficial}, http.StatusOK, models.RoleOfficial},
		{"unknown role", models.SignupRequest{Email: "sam@city.gov", Role: "mayor"}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/signup", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.AuthResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.User.Role != tt.expectedRole {
				t.Errorf("Expected role %s, got %s", tt.expectedRole, resp.User.Role)
			}
			if resp.User.ID == "" || resp.SessionToken == "" {
				t.Error("Expected user id and session token")
			}
		})
	}
}

func TestMe(t *testing.T) {
	handler := NewAuthHandler(testutil.TestSalt)
	me := middleware.RequireSession(testutil.TestSalt, handler.Me)

	t.Run("signed in", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/auth/me", nil, testutil.SessionHeaders(t, models.RoleCitizen))
		w := httptest.NewRecorder()

		me(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var user models.User
		testutil.AssertJSON(t, w, &user)
		if user.ID != "test-citizen" || user.Role != models.RoleCitizen {
			t.Errorf("Unexpected user %+v", user)
		}
	})

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		me(w, testutil.MakeRequest("GET", "/auth/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("without middleware", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Me(w, testutil.MakeRequest("GET", "/auth/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}
