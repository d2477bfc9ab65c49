package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// issueToken builds a signed service-account token with the given lifetime.
// The client never verifies the signature, it only reads the exp claim to
// schedule refreshes.
func issueToken(t *testing.T, lifetime time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "svc-healthdesk",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

// recordAPIServer fakes the remote record API: a login endpoint issuing
// the given token, and a handler for everything else.
func recordAPIServer(t *testing.T, token string, loginCount *int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(loginCount, 1)
		fmt.Fprintf(w, `{"success":true,"data":{"token":%q}}`, token)
	})
	mux.HandleFunc("/", handler)
	return httptest.NewServer(mux)
}

func TestClient_AuthenticatesOnceAndSendsBearer(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	var gotAuth string
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"success":true,"data":{"id":"stu-1","firstName":"Amelia"}}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	student, err := client.GetStudent(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, "Amelia", student.FirstName)
	assert.Equal(t, "Bearer "+token, gotAuth)

	_, err = client.GetStudent(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginCount))
}

func TestClient_ReauthenticatesWhenTokenNearExpiry(t *testing.T) {
	// Inside the refresh margin, so every request logs in again.
	token := issueToken(t, 5*time.Second)
	var loginCount int32
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"id":"stu-1"}}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	_, err := client.GetStudent(context.Background(), "stu-1")
	assert.NoError(t, err)
	_, err = client.GetStudent(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loginCount))
}

func TestClient_EnvelopeFailureIsAPIError(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"success":false,"message":"Student number already exists"}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	_, err := client.CreateStudent(context.Background(), map[string]string{"studentNumber": "STU-2026-0042"})
	assert.Error(t, err)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Student number already exists", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestClient_WriteWithoutDataIsAPIError(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		// success=true but no data: the write cannot be confirmed.
		fmt.Fprint(w, `{"success":true}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	_, err := client.UpdateStudent(context.Background(), "stu-1", map[string]interface{}{"grade": "6"})
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestClient_DeleteNeedsNoData(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	var gotMethod, gotPath string
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"success":true,"message":"Student deleted"}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	err := client.DeleteStudent(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/students/stu-1", gotPath)
}

func TestClient_NonEnvelopeResponseIsAPIError(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `<html>502 Bad Gateway</html>`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	_, err := client.ListStudents(context.Background())
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClient_LoginFailureSurfacesMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"message":"Invalid credentials"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "wrong"}, srv.Client(), zerolog.Nop())

	_, err := client.GetStudent(context.Background(), "stu-1")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_CreateSendsJSONBody(t *testing.T) {
	token := issueToken(t, time.Hour)
	var loginCount int32
	var gotBody map[string]interface{}
	srv := recordAPIServer(t, token, &loginCount, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"success":true,"data":{"id":"med-1","name":"Amoxicillin"}}`)
	})
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Email: "svc@schoolmed.app", Password: "pw"}, srv.Client(), zerolog.Nop())

	medication, err := client.CreateMedication(context.Background(), map[string]string{"name": "Amoxicillin"})
	assert.NoError(t, err)
	assert.Equal(t, "med-1", medication.ID)
	assert.Equal(t, "Amoxicillin", gotBody["name"])
}
