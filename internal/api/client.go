// Package api is the HTTP client for the remote pomo.do service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Method string
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

type Option func(*Client)

// WithToken sets the Authorization token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one JSON round trip. A nil out discards the response body;
// a non-2xx status is reported as *StatusError and out is left untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Method: method, Path: path}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// ============================================================
// Tasks
// ============================================================

func (c *Client) ListTasks(ctx context.Context, page, pageSize int) (Page[Task], error) {
	return list[Task](ctx, c, "tasks/", page, pageSize)
}

func (c *Client) CreateTask(ctx context.Context, task Task) (Task, error) {
	var created Task
	err := c.do(ctx, http.MethodPost, "tasks/", nil, task, &created)
	return created, err
}

// UpdateTask replaces the task's fields wholesale and returns the stored
// version.
func (c *Client) UpdateTask(ctx context.Context, task Task) (Task, error) {
	var updated Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("tasks/%d/", task.ID), nil, task, &updated)
	return updated, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("tasks/%d/", id), nil, nil, nil)
}

// IncrementGoneThrough credits the task with one completed work interval.
func (c *Client) IncrementGoneThrough(ctx context.Context, id int64) error {
	body := map[string]string{"obj": "task", "action": "increment_gone_through"}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("tasks/%d/", id), nil, body, nil)
}

// ToggleTaskDone flips the task's done flag and returns the new value.
func (c *Client) ToggleTaskDone(ctx context.Context, id int64) (bool, error) {
	body := map[string]string{"obj": "task", "action": "done"}
	var resp struct {
		Done bool `json:"done"`
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("tasks/%d/", id), nil, body, &resp)
	return resp.Done, err
}

// ============================================================
// Projects
// ============================================================

func (c *Client) ListProjects(ctx context.Context, page, pageSize int) (Page[Project], error) {
	return list[Project](ctx, c, "projects/", page, pageSize)
}

func (c *Client) CreateProject(ctx context.Context, project Project) (Project, error) {
	var created Project
	err := c.do(ctx, http.MethodPost, "projects/", nil, project, &created)
	return created, err
}

// RenameProject changes a project's title; other fields are not editable.
func (c *Client) RenameProject(ctx context.Context, id int64, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("projects/%d/modify_title/", id), nil, body, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("projects/%d/", id), nil, nil, nil)
}

// ============================================================
// Stats, tags, modes, session
// ============================================================

func (c *Client) ListStats(ctx context.Context) ([]Stat, error) {
	var stats []Stat
	err := c.do(ctx, http.MethodGet, "stats/", nil, nil, &stats)
	return stats, err
}

// IncreaseTodayStat bumps the completed-session count for day (ISO date).
// The endpoint is idempotent per day: a second call updates the existing
// record instead of creating another.
func (c *Client) IncreaseTodayStat(ctx context.Context, day string) (Stat, error) {
	var stat Stat
	err := c.do(ctx, http.MethodPost, "stats/", nil, map[string]string{"day": day}, &stat)
	return stat, err
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := c.do(ctx, http.MethodGet, "tags/", nil, nil, &tags)
	return tags, err
}

// ListModes returns the raw capability list; callers persist it verbatim.
func (c *Client) ListModes(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "modes/", nil, nil, &raw)
	return raw, err
}

// SetCurrentTask points the user's session at a task and echoes the id the
// server stored.
func (c *Client) SetCurrentTask(ctx context.Context, id int64) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPut, "currentTask", nil, map[string]int64{"id": id}, &resp)
	return resp.ID, err
}

func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "users/current/", nil, nil, &user)
	return user, err
}

func list[T any](ctx context.Context, c *Client, path string, page, pageSize int) (Page[T], error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var result Page[T]
	err := c.do(ctx, http.MethodGet, path, query, nil, &result)
	return result, err
}
