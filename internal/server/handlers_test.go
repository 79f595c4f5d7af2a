package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCRUD(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "owner")
	other := ts.registerAndLogin(t, "intruder")

	var created models.Project
	status := ts.do(t, http.MethodPost, "/api/projects", owner.Token, map[string]any{
		"title":        "Folio",
		"description":  "Portfolio builder",
		"technologies": []string{"go", " fiber ", "go", ""},
		"github_link":  "https://github.com/example/folio",
		"user_id":      999,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, created.ID)
	assert.Equal(t, owner.User.ID, created.UserID)
	assert.Equal(t, []string{"go", "fiber"}, []string(created.Technologies))

	path := fmt.Sprintf("/api/projects/%d", created.ID)

	var list []models.Project
	status = ts.do(t, http.MethodGet, "/api/projects", owner.Token, nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Folio", list[0].Title)

	var got models.Project
	status = ts.do(t, http.MethodGet, path, owner.Token, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, got.ID)

	var updated models.Project
	status = ts.do(t, http.MethodPut, path, owner.Token, map[string]any{
		"title":       "Folio v2",
		"description": "Rewritten",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Folio v2", updated.Title)
	assert.Empty(t, updated.GithubLink)
	assert.Empty(t, updated.Technologies)

	t.Run("other owners see nothing", func(t *testing.T) {
		var body errorBody
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, other.Token, nil, &body))
		assert.Equal(t, "Project not found", body.Error)
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, path, other.Token,
			map[string]any{"title": "Hijack", "description": "x"}, nil))
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, other.Token, nil, nil))

		var theirs []models.Project
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/projects", other.Token, nil, &theirs))
		assert.Empty(t, theirs)
	})

	t.Run("validation", func(t *testing.T) {
		var body errorBody
		status := ts.do(t, http.MethodPost, "/api/projects", owner.Token,
			map[string]any{"title": "", "description": "x"}, &body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	})

	t.Run("non numeric id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/projects/abc", owner.Token, nil, nil))
	})

	var msg map[string]string
	status = ts.do(t, http.MethodDelete, path, owner.Token, nil, &msg)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Project deleted successfully", msg["message"])

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, owner.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, owner.Token, nil, nil))
}

func TestPostCRUD(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "writer")
	other := ts.registerAndLogin(t, "reader")

	var created models.Post
	status := ts.do(t, http.MethodPost, "/api/posts", owner.Token, map[string]any{
		"title":   "Hello, World 2024!",
		"content": "Body",
		"excerpt": "Short",
		"tags":    []string{"go", "go", "web"},
		"slug":    "ignored",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "hello-world-2024", created.Slug)
	assert.Equal(t, models.PostStatusDraft, created.Status)
	assert.Equal(t, []string{"go", "web"}, []string(created.Tags))

	path := fmt.Sprintf("/api/posts/%d", created.ID)

	var updated models.Post
	status = ts.do(t, http.MethodPut, path, owner.Token, map[string]any{
		"title":   "Second Title",
		"content": "Body",
		"excerpt": "Short",
		"status":  "published",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "second-title", updated.Slug)
	assert.Equal(t, models.PostStatusPublished, updated.Status)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, other.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, other.Token, nil, nil))

	var body errorBody
	status = ts.do(t, http.MethodPost, "/api/posts", owner.Token, map[string]any{
		"title": "x", "content": "y", "excerpt": "z", "status": "archived",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, status)

	var list []models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts", owner.Token, nil, &list))
	assert.Len(t, list, 1)

	var msg map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, path, owner.Token, nil, &msg))
	assert.Equal(t, "Post deleted successfully", msg["message"])
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, owner.Token, nil, nil))
}

func TestRecordView(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "viewer")

	view := map[string]string{"target_id": "42", "target_type": "post"}

	var first, second, third map[string]any
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token, view, &first,
		"X-Visitor-Id", "v-1", "Referer", "https://news.example.com", "User-Agent", "test-agent"))
	assert.Equal(t, true, first["accepted"])
	assert.Equal(t, "View recorded successfully", first["message"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token, view, &second,
		"X-Visitor-Id", "v-1"))
	assert.Equal(t, false, second["accepted"])
	assert.Equal(t, "View already recorded", second["message"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token, view, &third,
		"X-Visitor-Id", "v-2"))
	assert.Equal(t, true, third["accepted"])

	var rows []models.PageView
	require.NoError(t, ts.srv.db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, owner.User.ID, rows[0].UserID)
	assert.Equal(t, "v-1", rows[0].VisitorID)
	assert.Equal(t, "https://news.example.com", rows[0].Referrer)
	assert.Equal(t, "test-agent", rows[0].UserAgent)

	t.Run("anonymous visitors share one identity", func(t *testing.T) {
		anon := map[string]string{"target_id": "7", "target_type": "project"}
		var a, b map[string]any
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token, anon, &a))
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token, anon, &b))
		assert.Equal(t, true, a["accepted"])
		assert.Equal(t, false, b["accepted"])
	})

	t.Run("validation", func(t *testing.T) {
		var body errorBody
		status := ts.do(t, http.MethodPost, "/api/views", owner.Token,
			map[string]string{"target_id": "1", "target_type": "video"}, &body)
		assert.Equal(t, http.StatusBadRequest, status)

		status = ts.do(t, http.MethodPost, "/api/views", owner.Token,
			map[string]string{"target_type": "post"}, &body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "target_id and target_type are required", body.Error)
	})
}

func TestGetStats(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "stats")
	other := ts.registerAndLogin(t, "bystander")

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects", owner.Token,
		map[string]any{"title": "P", "description": "D"}, nil))
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", owner.Token,
		map[string]any{"title": "Live", "content": "c", "excerpt": "e", "status": "published"}, nil))
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", owner.Token,
		map[string]any{"title": "Draft", "content": "c", "excerpt": "e"}, nil))

	var empty models.DashboardStats
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/stats", owner.Token, nil, &empty))
	assert.Equal(t, models.DashboardStats{
		TotalProjects:     1,
		TotalPosts:        1,
		ViewsTrend:        100,
		ProfileViewsTrend: 100,
	}, empty)

	for _, visitor := range []string{"a", "b"} {
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token,
			map[string]string{"target_id": "1", "target_type": "post"}, nil, "X-Visitor-Id", visitor))
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", owner.Token,
		map[string]string{"target_id": "owner", "target_type": "profile"}, nil, "X-Visitor-Id", "a"))
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/views", other.Token,
		map[string]string{"target_id": "9", "target_type": "post"}, nil, "X-Visitor-Id", "a"))

	// The accepted views invalidated the cached zero counts.
	var stats models.DashboardStats
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/stats", owner.Token, nil, &stats))
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(1), stats.ProfileViews)
	assert.Equal(t, int64(1), stats.TotalProjects)
	assert.Equal(t, int64(1), stats.TotalPosts)
	assert.Equal(t, 100.0, stats.ViewsTrend)
	assert.Equal(t, 100.0, stats.ProfileViewsTrend)
}

func TestPublicProfile(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "gina")

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects", owner.Token,
		map[string]any{"title": "Site", "description": "D"}, nil))
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", owner.Token,
		map[string]any{"title": "Public Notes", "content": "c", "excerpt": "e", "status": "published"}, nil))
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", owner.Token,
		map[string]any{"title": "Secret Draft", "content": "c", "excerpt": "e"}, nil))

	var profile struct {
		User     map[string]any   `json:"user"`
		Projects []models.Project `json:"projects"`
		Posts    []models.Post    `json:"posts"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/profiles/gina", "", nil, &profile))
	assert.Equal(t, "gina", profile.User["username"])
	assert.NotContains(t, profile.User, "email")
	assert.Len(t, profile.Projects, 1)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, "public-notes", profile.Posts[0].Slug)

	var post models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/profiles/gina/posts/public-notes", "", nil, &post))
	assert.Equal(t, "Public Notes", post.Title)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/profiles/gina/posts/secret-draft", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/profiles/nobody", "", nil, nil))
}

func TestHealthChecks(t *testing.T) {
	ts := newTestServer(t)

	var live map[string]any
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/live", "", nil, &live))
	assert.Equal(t, "up", live["status"])

	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/ready", "", nil, &ready))
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "healthy", ready.Checks["database"])
	assert.Equal(t, "healthy", ready.Checks["redis"])

	t.Run("redis down", func(t *testing.T) {
		ts.mr.Close()
		require.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/health/ready", "", nil, &ready))
		assert.Equal(t, "unhealthy", ready.Checks["redis"])
	})

	t.Run("redis optional outside production", func(t *testing.T) {
		noRedis := newTestServerWithoutRedis(t)
		require.Equal(t, http.StatusOK, noRedis.do(t, http.MethodGet, "/health/ready", "", nil, &ready))
		assert.Equal(t, "unavailable", ready.Checks["redis"])
	})
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestGetFeatureFlags(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.registerAndLogin(t, "flagger")

	var flags struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/flags", auth.Token, nil, &flags))
	assert.Equal(t, map[string]string{"stats_cache": "on", "live_views": "on"}, flags.Raw)
	assert.Equal(t, map[string]bool{"stats_cache": true, "live_views": true}, flags.Evaluated)
}
