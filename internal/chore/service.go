package chore

import (
	"context"
	"fmt"
	"time"

	"github.com/beocaca/pomo.do/internal/api"
	"github.com/beocaca/pomo.do/internal/storage"
)

// Server-side page sizes per collection kind.
const (
	TaskPageSize    = 4
	ProjectPageSize = 2
)

const modesKey = "modes"

// Service ties the two collection managers to the rest of the remote
// surface: stats, tags, modes, the user profile, and the current-task
// pointer. It also implements timer.CompletionListener.
type Service struct {
	client *api.Client
	kv     storage.KV
	notify Notifier

	tasks    *Collection[api.Task]
	projects *Collection[api.Project]

	stats         []api.Stat
	tags          []api.Tag
	currentTaskID int64
}

func NewService(client *api.Client, kv storage.KV, notify Notifier) *Service {
	return &Service{
		client:   client,
		kv:       kv,
		notify:   notify,
		tasks:    NewCollection[api.Task](client.Tasks(), notify, "Task", TaskPageSize),
		projects: NewCollection[api.Project](client.Projects(), notify, "Project", ProjectPageSize),
	}
}

func (s *Service) Tasks() *Collection[api.Task]       { return s.tasks }
func (s *Service) Projects() *Collection[api.Project] { return s.projects }
func (s *Service) Stats() []api.Stat                  { return s.stats }
func (s *Service) Tags() []api.Tag                    { return s.tags }
func (s *Service) CurrentTaskID() int64               { return s.currentTaskID }

// Refresh performs the initial fetch of both collections. Each collection
// fails independently; the first error is reported after both ran.
func (s *Service) Refresh(ctx context.Context) error {
	taskErr := s.tasks.FetchPage(ctx)
	projectErr := s.projects.FetchPage(ctx)
	if taskErr != nil {
		return taskErr
	}
	return projectErr
}

func (s *Service) FetchStats(ctx context.Context) error {
	stats, err := s.client.ListStats(ctx)
	if err != nil {
		return err
	}
	s.stats = stats
	return nil
}

func (s *Service) FetchTags(ctx context.Context) error {
	tags, err := s.client.ListTags(ctx)
	if err != nil {
		return err
	}
	s.tags = tags
	return nil
}

// FetchModes pulls the capability list and persists it verbatim for the
// UI to read on demand.
func (s *Service) FetchModes(ctx context.Context) error {
	raw, err := s.client.ListModes(ctx)
	if err != nil {
		return err
	}
	return s.kv.Set(modesKey, string(raw))
}

// LoadProfile fetches the authenticated user and adopts their current-task
// pointer. Callers use the returned profile for the auto-start flags.
func (s *Service) LoadProfile(ctx context.Context) (api.User, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return api.User{}, err
	}
	s.currentTaskID = user.CurrentTaskID
	return user, nil
}

// SetCurrentTask points the session at a task; the server echoes the id it
// stored.
func (s *Service) SetCurrentTask(ctx context.Context, id int64) error {
	stored, err := s.client.SetCurrentTask(ctx, id)
	if err != nil {
		return err
	}
	s.currentTaskID = stored
	return nil
}

// DeleteTask removes the task and clears the current-task pointer when the
// deleted id matches it.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	if id == s.currentTaskID {
		s.currentTaskID = 0
	}
	return nil
}

func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	return s.projects.Delete(ctx, id)
}

// UpdateTask saves edits to an existing task and refetches the window so
// the edited version is what renders.
func (s *Service) UpdateTask(ctx context.Context, task api.Task) error {
	updated, err := s.client.UpdateTask(ctx, task)
	if err != nil {
		return err
	}
	if s.notify != nil {
		s.notify.Success(fmt.Sprintf("'%s' saved!", updated.Title))
	}
	return s.tasks.FetchPage(ctx)
}

// RenameProject changes a project's title and refetches the window.
func (s *Service) RenameProject(ctx context.Context, id int64, name string) error {
	if err := s.client.RenameProject(ctx, id, name); err != nil {
		return err
	}
	if s.notify != nil {
		s.notify.Success("Project saved!")
	}
	return s.projects.FetchPage(ctx)
}

// ToggleTaskDone flips the done flag server-side and refetches the window.
func (s *Service) ToggleTaskDone(ctx context.Context, id int64) error {
	if _, err := s.client.ToggleTaskDone(ctx, id); err != nil {
		return err
	}
	return s.tasks.FetchPage(ctx)
}

// WorkIntervalCompleted implements timer.CompletionListener: credit today's
// stat, then the current task's gone-through counter when one is set. Called
// once per completed work interval by the timer session.
func (s *Service) WorkIntervalCompleted() {
	ctx := context.Background()

	day := time.Now().Format("2006-01-02")
	if stat, err := s.client.IncreaseTodayStat(ctx, day); err == nil {
		s.applyStat(stat)
	}

	if s.currentTaskID != 0 {
		if err := s.client.IncrementGoneThrough(ctx, s.currentTaskID); err == nil {
			s.tasks.FetchPage(ctx)
		}
	}
}

func (s *Service) applyStat(stat api.Stat) {
	for i := range s.stats {
		if s.stats[i].ID == stat.ID {
			s.stats[i].ChoresDone = stat.ChoresDone
			return
		}
	}
	s.stats = append(s.stats, stat)
}
