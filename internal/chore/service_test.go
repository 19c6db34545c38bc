package chore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beocaca/pomo.do/internal/api"
)

type memKV struct {
	values map[string]string
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.values, key)
	return nil
}

// choreServer fakes the remote service with just enough surface for the
// service-level flows.
type choreServer struct {
	mux *http.ServeMux

	tasks []api.Task

	statDays       []string
	increments     []string // task ids PATCHed with increment_gone_through
	savedTitles    []string // titles PUT to tasks/<id>/
	renames        []string // names PATCHed to projects/<id>/modify_title/
	currentPuts    []int64
	taskFetches    int
	projectFetches int
}

func newChoreServer(tasks ...api.Task) *choreServer {
	s := &choreServer{mux: http.NewServeMux(), tasks: tasks}

	s.mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.taskFetches++
			json.NewEncoder(w).Encode(api.Page[api.Task]{Results: s.tasks, Count: len(s.tasks)})
		case http.MethodPatch:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["action"] == "increment_gone_through" {
				s.increments = append(s.increments, strings.Trim(strings.TrimPrefix(r.URL.Path, "/tasks/"), "/"))
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		case http.MethodPut:
			var task api.Task
			json.NewDecoder(r.Body).Decode(&task)
			s.savedTitles = append(s.savedTitles, task.Title)
			json.NewEncoder(w).Encode(task)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	s.mux.HandleFunc("/projects/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.projectFetches++
			json.NewEncoder(w).Encode(api.Page[api.Project]{})
		case http.MethodPatch:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			s.renames = append(s.renames, body["name"])
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}
	})

	s.mux.HandleFunc("POST /stats/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		s.statDays = append(s.statDays, body["day"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.Stat{ID: 7, Day: body["day"], ChoresDone: len(s.statDays)})
	})

	s.mux.HandleFunc("PUT /currentTask", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int64
		json.NewDecoder(r.Body).Decode(&body)
		s.currentPuts = append(s.currentPuts, body["id"])
		json.NewEncoder(w).Encode(map[string]int64{"id": body["id"]})
	})

	s.mux.HandleFunc("GET /modes/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Local Default"}]`))
	})

	s.mux.HandleFunc("GET /users/current/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.User{ID: 1, Username: "ana", CurrentTaskID: 42, AutoStartBreaks: true})
	})

	return s
}

func newTestService(t *testing.T, server *choreServer) (*Service, *fakeNotifier, *memKV) {
	t.Helper()
	ts := httptest.NewServer(server.mux)
	t.Cleanup(ts.Close)

	kv := newMemKV()
	notify := &fakeNotifier{}
	return NewService(api.NewClient(ts.URL), kv, notify), notify, kv
}

// ============================================================
// Completion side effects
// ============================================================

func TestWorkIntervalCompletedCreditsStatAndCurrentTask(t *testing.T) {
	server := newChoreServer(api.Task{ID: 42, Title: "draft report"})
	service, _, _ := newTestService(t, server)
	service.currentTaskID = 42
	service.tasks.FetchPage(context.Background())
	fetchesBefore := server.taskFetches

	service.WorkIntervalCompleted()

	today := time.Now().Format("2006-01-02")
	if len(server.statDays) != 1 || server.statDays[0] != today {
		t.Fatalf("expected one stat post for %s, got %v", today, server.statDays)
	}
	if len(server.increments) != 1 || server.increments[0] != "42" {
		t.Fatalf("expected gone-through increment for task 42, got %v", server.increments)
	}
	if server.taskFetches != fetchesBefore+1 {
		t.Fatal("task window should refetch after the increment")
	}
	if len(service.Stats()) != 1 || service.Stats()[0].ID != 7 {
		t.Fatalf("stat cache not updated: %+v", service.Stats())
	}
}

func TestWorkIntervalCompletedWithoutCurrentTask(t *testing.T) {
	server := newChoreServer()
	service, _, _ := newTestService(t, server)

	service.WorkIntervalCompleted()

	if len(server.statDays) != 1 {
		t.Fatalf("stat must still be credited, got %v", server.statDays)
	}
	if len(server.increments) != 0 {
		t.Fatalf("no task increment without a current task, got %v", server.increments)
	}
}

func TestWorkIntervalCompletedUpdatesExistingStat(t *testing.T) {
	server := newChoreServer()
	service, _, _ := newTestService(t, server)

	service.WorkIntervalCompleted()
	service.WorkIntervalCompleted()

	// The endpoint is idempotent per day: same record, updated count.
	if len(service.Stats()) != 1 {
		t.Fatalf("expected a single cached stat record, got %+v", service.Stats())
	}
	if service.Stats()[0].ChoresDone != 2 {
		t.Fatalf("expected updated count 2, got %d", service.Stats()[0].ChoresDone)
	}
}

// ============================================================
// Edits
// ============================================================

func TestUpdateTaskNotifiesAndRefetches(t *testing.T) {
	server := newChoreServer(api.Task{ID: 42, Title: "draft report"})
	service, notify, _ := newTestService(t, server)
	service.tasks.FetchPage(context.Background())
	fetchesBefore := server.taskFetches

	err := service.UpdateTask(context.Background(), api.Task{ID: 42, Title: "final report"})
	if err != nil {
		t.Fatal(err)
	}
	if len(server.savedTitles) != 1 || server.savedTitles[0] != "final report" {
		t.Fatalf("expected one PUT with the edited title, got %v", server.savedTitles)
	}
	if len(notify.successes) != 1 || notify.successes[0] != "'final report' saved!" {
		t.Fatalf("unexpected notification: %v", notify.successes)
	}
	if server.taskFetches != fetchesBefore+1 {
		t.Fatal("task window should refetch after the save")
	}
}

func TestRenameProjectNotifiesAndRefetches(t *testing.T) {
	server := newChoreServer()
	service, notify, _ := newTestService(t, server)
	fetchesBefore := server.projectFetches

	if err := service.RenameProject(context.Background(), 3, "Nuxt v3 Project"); err != nil {
		t.Fatal(err)
	}
	if len(server.renames) != 1 || server.renames[0] != "Nuxt v3 Project" {
		t.Fatalf("expected one rename patch, got %v", server.renames)
	}
	if len(notify.successes) != 1 || notify.successes[0] != "Project saved!" {
		t.Fatalf("unexpected notification: %v", notify.successes)
	}
	if server.projectFetches != fetchesBefore+1 {
		t.Fatal("project window should refetch after the rename")
	}
}

// ============================================================
// Current task pointer
// ============================================================

func TestSetCurrentTaskStoresEcho(t *testing.T) {
	server := newChoreServer()
	service, _, _ := newTestService(t, server)

	if err := service.SetCurrentTask(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if service.CurrentTaskID() != 9 {
		t.Fatalf("expected pointer 9, got %d", service.CurrentTaskID())
	}
}

func TestDeleteTaskClearsMatchingPointer(t *testing.T) {
	server := newChoreServer(api.Task{ID: 5, Title: "doomed"}, api.Task{ID: 6, Title: "other"})
	service, _, _ := newTestService(t, server)
	service.currentTaskID = 5
	service.tasks.FetchPage(context.Background())

	if err := service.DeleteTask(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if service.CurrentTaskID() != 0 {
		t.Fatalf("pointer should be cleared, got %d", service.CurrentTaskID())
	}
}

func TestDeleteTaskKeepsUnrelatedPointer(t *testing.T) {
	server := newChoreServer(api.Task{ID: 5, Title: "doomed"}, api.Task{ID: 6, Title: "kept"})
	service, _, _ := newTestService(t, server)
	service.currentTaskID = 6
	service.tasks.FetchPage(context.Background())

	service.DeleteTask(context.Background(), 5)
	if service.CurrentTaskID() != 6 {
		t.Fatalf("unrelated pointer must survive, got %d", service.CurrentTaskID())
	}
}

// ============================================================
// Profile, modes
// ============================================================

func TestLoadProfileAdoptsPointer(t *testing.T) {
	server := newChoreServer()
	service, _, _ := newTestService(t, server)

	user, err := service.LoadProfile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "ana" || !user.AutoStartBreaks {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if service.CurrentTaskID() != 42 {
		t.Fatalf("expected pointer 42, got %d", service.CurrentTaskID())
	}
}

func TestFetchModesPersistsRawList(t *testing.T) {
	server := newChoreServer()
	service, _, kv := newTestService(t, server)

	if err := service.FetchModes(context.Background()); err != nil {
		t.Fatal(err)
	}
	raw, ok, _ := kv.Get("modes")
	if !ok {
		t.Fatal("modes should be persisted")
	}
	var modes []map[string]any
	if err := json.Unmarshal([]byte(raw), &modes); err != nil {
		t.Fatalf("persisted modes not valid JSON: %v", err)
	}
	if fmt.Sprint(modes[0]["name"]) != "Local Default" {
		t.Fatalf("unexpected modes payload: %s", raw)
	}
}
