package api

// Types mirror the remote service's JSON. Identifiers are server-assigned;
// the client never invents them.

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Subtask struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Estimated   int       `json:"estimated"`
	GoneThrough int       `json:"gone_through"`
	Minutes     int       `json:"minutes"`
	Done        bool      `json:"done"`
	Tags        []Tag     `json:"tags"`
	Subtasks    []Subtask `json:"subtasks"`
}

func (t Task) ItemID() int64 { return t.ID }
func (t Task) Label() string { return t.Title }

type Project struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

func (p Project) ItemID() int64 { return p.ID }
func (p Project) Label() string { return p.Name }

// Stat is one day's completed-session record.
type Stat struct {
	ID         int64  `json:"id"`
	Day        string `json:"day"` // ISO date, e.g. 2026-08-29
	ChoresDone int    `json:"chores_done"`
}

type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	CurrentTaskID   int64  `json:"current_task_id"`
	AutoStartPomos  bool   `json:"auto_start_pomos"`
	AutoStartBreaks bool   `json:"auto_start_breaks"`
}

// Page is the server's paginated list envelope: the current window plus the
// total count of matching items across all pages.
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}
