package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/isdelr/todo-be/internal/apperr"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUsers records login attempts and accepts a single credential pair.
type fakeUsers struct {
	services.UserServiceProvider
	email, password string
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (services.Token, error) {
	f.email, f.password = email, password
	if email != "alice@example.com" || password != "secret" {
		return services.Token{}, apperr.ErrIncorrectLogin
	}
	return services.Token{AccessToken: "token", TokenType: services.TokenTypeBearer, ExpiresIn: 1800}, nil
}

func (f *fakeUsers) Refresh(current models.Account) (services.Token, error) {
	return services.Token{AccessToken: "fresh-" + current.Email, TokenType: services.TokenTypeBearer}, nil
}

func TestAuthHandler_Token(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"username": {"alice@example.com"}, "password": {"secret"}}.Encode(),
			wantStatus:  http.StatusOK,
		},
		{
			name:        "json",
			contentType: "application/json; charset=utf-8",
			body:        `{"username":"alice@example.com","password":"secret"}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "wrong password",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"username": {"alice@example.com"}, "password": {"nope"}}.Encode(),
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "missing fields",
			contentType: "application/x-www-form-urlencoded",
			body:        "",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "broken json",
			contentType: "application/json",
			body:        `{"username":`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeUsers{})
			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			h.Token(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"access_token":"token","token_type":"Bearer","expires_in":1800}`, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Token_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("username", "alice@example.com"))
	require.NoError(t, mw.WriteField("password", "secret"))
	require.NoError(t, mw.Close())

	users := &fakeUsers{}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	NewAuthHandler(users).Token(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice@example.com", users.email)
	assert.Equal(t, "secret", users.password)
}

func TestAuthHandler_Token_IncorrectLoginHasNoChallenge(t *testing.T) {
	h := NewAuthHandler(&fakeUsers{})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("username=bob@example.com&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Token(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Incorrect email or password"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}
