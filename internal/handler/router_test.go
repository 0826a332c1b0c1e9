package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexushr/nexushr/internal/model"
)

func TestLoginAndMe(t *testing.T) {
	env := setupRouter(t)
	token := env.login(t, "hr_admin", "admin123")

	recorder := env.do(t, http.MethodGet, "/api/auth/me", token, "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var user struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	decodeData(t, recorder, &user)
	require.Equal(t, "hr_admin", user.Username)
	require.Equal(t, "HR Administrator", user.FullName)
	require.Equal(t, "admin", user.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	env := setupRouter(t)
	form := url.Values{}
	form.Set("username", "hr_admin")
	form.Set("password", "wrong")
	recorder := env.do(t, http.MethodPost, "/api/auth/login", "", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	env := setupRouter(t)
	recorder := env.do(t, http.MethodGet, "/api/auth/me", "", "", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectedRouteWithGarbageToken(t *testing.T) {
	env := setupRouter(t)
	recorder := env.do(t, http.MethodGet, "/api/documents/list", "not-a-token", "", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUploadForbiddenForEmployee(t *testing.T) {
	env := setupRouter(t)
	token := env.login(t, "employee", "employee123")
	recorder := env.do(t, http.MethodPost, "/api/documents/upload", token, "", "")
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestUploadAllowedForManagerButValidated(t *testing.T) {
	env := setupRouter(t)
	token := env.login(t, "hr_manager", "manager123")
	// Role check passes, then the empty multipart body fails validation.
	recorder := env.do(t, http.MethodPost, "/api/documents/upload", token, "", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteAllForbiddenForNonAdmin(t *testing.T) {
	env := setupRouter(t)
	for _, creds := range [][2]string{{"hr_manager", "manager123"}, {"employee", "employee123"}} {
		token := env.login(t, creds[0], creds[1])
		recorder := env.do(t, http.MethodDelete, "/api/documents/all", token, "", "")
		require.Equal(t, http.StatusForbidden, recorder.Code, creds[0])
	}
}

func TestDeleteAllAsAdmin(t *testing.T) {
	env := setupRouter(t)
	env.chunks.chunks = []*model.DocumentChunk{{ID: "1", Content: "text"}}
	env.docs.docs = []*model.UploadedDocument{{ID: "doc1"}}
	token := env.login(t, "hr_admin", "admin123")

	recorder := env.do(t, http.MethodDelete, "/api/documents/all", token, "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/documents/stats", token, "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var stats struct {
		DocumentCount int `json:"document_count"`
	}
	decodeData(t, recorder, &stats)
	require.Zero(t, stats.DocumentCount)
}

func TestChatQuery(t *testing.T) {
	env := setupRouter(t)
	env.chunks.chunks = []*model.DocumentChunk{
		{ID: "1", Filename: "leave.pdf", Page: 1, Content: "Sick Leave: 10 days per year", Embedding: []float32{1, 0, 0}},
	}
	token := env.login(t, "employee", "employee123")

	recorder := env.do(t, http.MethodPost, "/api/chat/query", token,
		`{"question":"How many sick leaves do employees get?","chat_history":[],"include_sources":true}`,
		"application/json")
	require.Equal(t, http.StatusOK, recorder.Code)

	var result struct {
		Answer  string `json:"answer"`
		Intent  string `json:"intent"`
		Sources []struct {
			Filename string `json:"filename"`
		} `json:"sources"`
		Suggestions []string `json:"suggestions"`
	}
	decodeData(t, recorder, &result)
	require.Equal(t, "generated answer", result.Answer)
	require.Equal(t, "policy", result.Intent)
	require.NotEmpty(t, result.Suggestions)
	require.Len(t, result.Sources, 1)
	require.Equal(t, "leave.pdf", result.Sources[0].Filename)
}

func TestChatClassifyIntent(t *testing.T) {
	env := setupRouter(t)
	token := env.login(t, "employee", "employee123")

	cases := map[string]string{
		"What is the sick leave policy?": "policy",
		"What is my email?":              "personal_data",
	}
	for question, expected := range cases {
		recorder := env.do(t, http.MethodPost, "/api/chat/classify-intent", token,
			`{"question":"`+question+`"}`, "application/json")
		require.Equal(t, http.StatusOK, recorder.Code)
		var result struct {
			Intent string `json:"intent"`
		}
		decodeData(t, recorder, &result)
		require.Equal(t, expected, result.Intent, question)
	}
}

func TestChatSuggest(t *testing.T) {
	env := setupRouter(t)
	token := env.login(t, "employee", "employee123")

	recorder := env.do(t, http.MethodPost, "/api/chat/suggest", token,
		`{"question":"How do I apply for leave?"}`, "application/json")
	require.Equal(t, http.StatusOK, recorder.Code)
	var result struct {
		Suggestions []string `json:"suggestions"`
	}
	decodeData(t, recorder, &result)
	require.Contains(t, result.Suggestions, "Can sick leave be encashed?")
}

func TestHealthIsPublic(t *testing.T) {
	env := setupRouter(t)
	recorder := env.do(t, http.MethodGet, "/api/health", "", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var health struct {
		Status          string `json:"status"`
		ReadyForQueries bool   `json:"ready_for_queries"`
	}
	decodeData(t, recorder, &health)
	require.Equal(t, "healthy", health.Status)
	require.False(t, health.ReadyForQueries)
}

func TestInfoIsPublic(t *testing.T) {
	env := setupRouter(t)
	recorder := env.do(t, http.MethodGet, "/api/info", "", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestDocumentList(t *testing.T) {
	env := setupRouter(t)
	env.docs.docs = []*model.UploadedDocument{
		{ID: "20240101_101010_leave.pdf", Filename: "leave.pdf", Size: 1234, Pages: 2, Chunks: 5},
	}
	token := env.login(t, "employee", "employee123")

	recorder := env.do(t, http.MethodGet, "/api/documents/list", token, "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var result struct {
		Documents []struct {
			Filename string `json:"filename"`
			Size     int64  `json:"size"`
		} `json:"documents"`
	}
	decodeData(t, recorder, &result)
	require.Len(t, result.Documents, 1)
	require.Equal(t, "leave.pdf", result.Documents[0].Filename)
}
