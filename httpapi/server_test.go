package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/ai/mock"
	"github.com/tasknest/tasknest/planner"
	"github.com/tasknest/tasknest/search"
	"github.com/tasknest/tasknest/storage/badger"
	"github.com/tasknest/tasknest/tasks"
)

var testSecret = []byte("test-secret")

func newTestHandler(t *testing.T, provider ai.AIProvider) http.Handler {
	t.Helper()

	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	})

	taskService, err := tasks.NewService(taskRepo, provider)
	require.NoError(t, err)

	searcher, err := search.NewSearcher(taskRepo, provider)
	require.NoError(t, err)

	taskPlanner, err := planner.NewPlanner(taskRepo, subtaskRepo, provider)
	require.NoError(t, err)

	server, err := NewServer(taskService, searcher, taskPlanner, userRepo, testSecret)
	require.NoError(t, err)

	return server.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, handler http.Handler, email string) string {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())

	rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())

	register(t, handler, "alice@example.com")

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "bob@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login succeeds with right password", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password and unknown email both get 401", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTasksRequireAuth(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())

	for _, path := range []string{"/tasks", "/search"} {
		rec := doJSON(t, handler, http.MethodPost, path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestTaskLifecycle(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())
	token := register(t, handler, "alice@example.com")

	// Create
	rec := doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]string{
		"title":    "Buy groceries",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.True(t, created.Embedded)

	// Empty title is a client error
	rec = doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// List
	rec = doJSON(t, handler, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	// Status update
	rec = doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/tasks/%d/status", created.ID), token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "done", string(updated.Status))

	// Unknown status rejected
	rec = doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/tasks/%d/status", created.ID), token, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete
	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskOwnerIsolation(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())
	aliceToken := register(t, handler, "alice@example.com")
	bobToken := register(t, handler, "bob@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/tasks", aliceToken, map[string]string{"title": "Alice task"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Bob sees 404, not 403: the task doesn't exist in his world
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobTasks []taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobTasks))
	assert.Empty(t, bobTasks)
}

func TestSearchEndpoint(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "Buy groceries" || text == "milk" {
			return []float32{1, 0}, nil
		}
		return []float32{0, 1}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockSubtaskGenerator())

	handler := newTestHandler(t, provider)
	token := register(t, handler, "alice@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]string{"title": "Buy groceries"})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("relevant hit", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/search", token, map[string]string{"query": "milk"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp searchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, "Buy groceries", resp.Tasks[0].Title)
		assert.Greater(t, resp.Tasks[0].Similarity, float32(0))
	})

	t.Run("unrelated query returns empty list", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/search", token, map[string]string{"query": "astrophysics"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"tasks":[]}`, rec.Body.String())
	})

	t.Run("empty query is a client error", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/search", token, map[string]string{"query": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("foreign owner in the body is rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/search", token, map[string]any{
			"query": "milk",
			"owner": 9999,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("provider outage is a bad gateway", func(t *testing.T) {
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("dial tcp 10.0.0.1:11434: connect: connection refused")
		}
		defer func() { embedder.EmbedTextFunc = nil }()

		rec := doJSON(t, handler, http.MethodPost, "/search", token, map[string]string{"query": "milk"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		// The provider's failure chain stays server-side
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.NotContains(t, rec.Body.String(), "11434")
	})
}

func TestGenerateEmbeddingEndpoint(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())
	token := register(t, handler, "alice@example.com")

	t.Run("returns a vector", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/embeddings", token, map[string]string{"text": "Buy groceries"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp embedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Embedding, mock.Dimensions)
	})

	t.Run("empty text is a client error", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/embeddings", token, map[string]string{"text": "   "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/embeddings", "", map[string]string{"text": "Buy groceries"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSubtaskEndpoints(t *testing.T) {
	handler := newTestHandler(t, mock.NewMockProvider())
	token := register(t, handler, "alice@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]string{"title": "Plan a wedding"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

	// Suggest
	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/tasks/%d/subtasks/suggest", task.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var suggested struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggested))
	require.NotEmpty(t, suggested.Suggestions)

	// Save a selection
	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/tasks/%d/subtasks", task.ID), token, map[string][]string{
		"titles": suggested.Suggestions[:2],
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved []subtaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.Len(t, saved, 2)
	assert.True(t, saved[0].Saved)

	// List
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/tasks/%d/subtasks", task.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []subtaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)

	// Delete one
	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/tasks/%d/subtasks/%d", task.ID, saved[0].ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Suggestions for someone else's task 404
	otherToken := register(t, handler, "bob@example.com")
	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/tasks/%d/subtasks/suggest", task.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeneratorOutage(t *testing.T) {
	generator := mock.NewMockSubtaskGenerator()
	generator.GenerateSubtasksFunc = func(ctx context.Context, title string) ([]string, error) {
		return nil, fmt.Errorf("%w: connection refused", ai.ErrProviderUnavailable)
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	handler := newTestHandler(t, provider)
	token := register(t, handler, "alice@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]string{"title": "Plan a wedding"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/tasks/%d/subtasks/suggest", task.ID), token, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
