package api

import "context"

// TaskSource and ProjectSource give the collection manager one uniform
// List/Create/Delete surface per collection kind.

type TaskSource struct {
	c *Client
}

func (c *Client) Tasks() *TaskSource { return &TaskSource{c: c} }

func (s *TaskSource) List(ctx context.Context, page, pageSize int) ([]Task, int, error) {
	result, err := s.c.ListTasks(ctx, page, pageSize)
	return result.Results, result.Count, err
}

func (s *TaskSource) Create(ctx context.Context, task Task) (Task, error) {
	return s.c.CreateTask(ctx, task)
}

func (s *TaskSource) Delete(ctx context.Context, id int64) error {
	return s.c.DeleteTask(ctx, id)
}

type ProjectSource struct {
	c *Client
}

func (c *Client) Projects() *ProjectSource { return &ProjectSource{c: c} }

func (s *ProjectSource) List(ctx context.Context, page, pageSize int) ([]Project, int, error) {
	result, err := s.c.ListProjects(ctx, page, pageSize)
	return result.Results, result.Count, err
}

func (s *ProjectSource) Create(ctx context.Context, project Project) (Project, error) {
	return s.c.CreateProject(ctx, project)
}

func (s *ProjectSource) Delete(ctx context.Context, id int64) error {
	return s.c.DeleteProject(ctx, id)
}
