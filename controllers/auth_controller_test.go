package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/newswire/models"
)

func TestSignupCreatesAccount(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Jane Writer",
		"email":    "jane@example.com",
		"password": "Str0ng!pass",
		"role":     "author",
	})
	requireStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["Success"])

	obj := body["Object"].(map[string]interface{})
	assert.Equal(t, "Jane Writer", obj["name"])
	assert.Equal(t, "jane@example.com", obj["email"])
	assert.Equal(t, "author", obj["role"])
	assert.NotContains(t, obj, "password")
	assert.NotContains(t, w.Body.String(), "Str0ng!pass")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&stored).Error)
	assert.NotEqual(t, "Str0ng!pass", stored.PasswordHash)
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"weak password", map[string]string{"name": "Jane", "email": "a@b.co", "password": "weakpass", "role": "reader"}},
		{"numeric name", map[string]string{"name": "Jane123", "email": "a@b.co", "password": "Str0ng!pass", "role": "reader"}},
		{"bad email", map[string]string{"name": "Jane", "email": "not-an-email", "password": "Str0ng!pass", "role": "reader"}},
		{"bad role", map[string]string{"name": "Jane", "email": "a@b.co", "password": "Str0ng!pass", "role": "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", tc.payload)
			requireStatus(t, w, http.StatusBadRequest)

			body := decodeBody(t, w)
			assert.Equal(t, false, body["Success"])
			assert.NotEmpty(t, body["Errors"])
		})
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	createUser(t, db, "taken@example.com", models.RoleReader)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Jane Writer",
		"email":    "taken@example.com",
		"password": "Str0ng!pass",
		"role":     "reader",
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestLoginIssuesToken(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	createUser(t, db, "jane@example.com", models.RoleAuthor)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "Passw0rd!",
	})
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	obj := body["Object"].(map[string]interface{})
	assert.NotEmpty(t, obj["token"])

	user := obj["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	createUser(t, db, "jane@example.com", models.RoleAuthor)

	wrongPassword := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "Wr0ng!pass",
	})
	unknownEmail := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "Wr0ng!pass",
	})

	requireStatus(t, wrongPassword, http.StatusUnauthorized)
	requireStatus(t, unknownEmail, http.StatusUnauthorized)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
