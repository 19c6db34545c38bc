package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksSendsPaginationParams(t *testing.T) {
	var gotPage, gotSize string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotSize = r.URL.Query().Get("page_size")
		json.NewEncoder(w).Encode(Page[Task]{
			Results: []Task{{ID: 1, Title: "write report"}},
			Count:   9,
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	page, err := c.ListTasks(context.Background(), 3, 4)
	require.NoError(t, err)

	assert.Equal(t, "3", gotPage)
	assert.Equal(t, "4", gotSize)
	assert.Equal(t, 9, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "write report", page.Results[0].Title)
}

func TestCreateTaskRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tasks/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var task Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		task.ID = 12
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(task)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	created, err := c.CreateTask(context.Background(), Task{Title: "new", Estimated: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)
	assert.Equal(t, "new", created.Title)
}

func TestUpdateTaskPutsFullObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tasks/8/", r.URL.Path)

		var task Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		assert.Equal(t, "renamed", task.Title)
		assert.Equal(t, 3, task.GoneThrough)
		json.NewEncoder(w).Encode(task)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	updated, err := c.UpdateTask(context.Background(), Task{ID: 8, Title: "renamed", GoneThrough: 3})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestRenameProjectPayload(t *testing.T) {
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/projects/4/modify_title/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	require.NoError(t, c.RenameProject(context.Background(), 4, "Nuxt v3 Project"))
	assert.Equal(t, "Nuxt v3 Project", body["name"])
}

func TestDeleteTaskAcceptsNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/tasks/5/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	require.NoError(t, c.DeleteTask(context.Background(), 5))
}

func TestNonSuccessStatusIsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	err := c.DeleteTask(context.Background(), 5)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Tag{})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, WithToken("sekrit"))
	_, err := c.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token sekrit", gotAuth)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode([]Tag{})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.ListTags(context.Background())
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestIncreaseTodayStat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/stats/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-08-29", body["day"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Stat{ID: 3, Day: body["day"], ChoresDone: 4})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	stat, err := c.IncreaseTodayStat(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 4, stat.ChoresDone)
}

func TestIncrementGoneThroughPayload(t *testing.T) {
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/tasks/7/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	require.NoError(t, c.IncrementGoneThrough(context.Background(), 7))
	assert.Equal(t, "task", body["obj"])
	assert.Equal(t, "increment_gone_through", body["action"])
}

func TestToggleTaskDone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"done": true})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	done, err := c.ToggleTaskDone(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSetCurrentTaskEchoesID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/currentTask", r.URL.Path)

		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]int64{"id": body["id"]})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	id, err := c.SetCurrentTask(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestSourcesMatchClientEndpoints(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tasks/":
			json.NewEncoder(w).Encode(Page[Task]{Results: []Task{{ID: 1}}, Count: 1})
		case "/projects/":
			json.NewEncoder(w).Encode(Page[Project]{Results: []Project{{ID: 2}}, Count: 1})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL)

	tasks, total, err := c.Tasks().List(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)

	projects, total, err := c.Projects().List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, projects, 1)
}

func TestContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(ts.URL)
	_, err := c.ListTags(ctx)
	require.Error(t, err)
}
