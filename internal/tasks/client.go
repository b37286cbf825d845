package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/instrumentation"
)

// MaxTasks caps the number of tasks fetched per list.
const MaxTasks = 100

// Client wraps the Google Tasks service
type Client struct {
	svc     *tasks.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a Tasks client that authenticates every request with the
// current token from ts. Options are applied after the HTTP client, so
// option.WithEndpoint can redirect the service.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(google.NewHTTPClient(ts))}, opts...)

	svc, err := tasks.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// WithMetrics records every call on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists(ctx context.Context) (lists []TaskList, err error) {
	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceTasks, instrumentation.OperationList)
	defer func() { done(err) }()

	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", google.NormalizeError(err))
	}

	lists = make([]TaskList, 0, len(result.Items))
	for _, tl := range result.Items {
		lists = append(lists, toTaskList(tl))
	}

	return lists, nil
}

// ListTasks lists up to MaxTasks incomplete, non-hidden tasks in a task list.
func (c *Client) ListTasks(ctx context.Context, taskListID string) (items []Task, err error) {
	if taskListID == "" {
		return nil, errors.New("task list ID is required")
	}

	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceTasks, instrumentation.OperationList,
		instrumentation.ResourceAttrs(instrumentation.ResourceTypeTaskList, taskListID)...)
	defer func() { done(err) }()

	result, err := c.svc.Tasks.List(taskListID).
		ShowCompleted(false).
		ShowHidden(false).
		MaxResults(MaxTasks).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", google.NormalizeError(err))
	}

	items = make([]Task, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, toTask(t))
	}

	return items, nil
}

// UpdateTask sends a partial update and returns the task as stored by the
// server.
func (c *Client) UpdateTask(ctx context.Context, taskListID, taskID string, patch Patch) (task *Task, err error) {
	if taskListID == "" || taskID == "" {
		return nil, errors.New("task list ID and task ID are required")
	}
	if patch.IsEmpty() {
		return nil, errors.New("patch sets no fields")
	}

	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceTasks, instrumentation.OperationUpdate,
		instrumentation.ResourceAttrs(instrumentation.ResourceTypeTask, taskID)...)
	defer func() { done(err) }()

	updated, err := c.svc.Tasks.Patch(taskListID, taskID, patch.toAPI()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", google.NormalizeError(err))
	}

	result := toTask(updated)
	return &result, nil
}

// CreateTask creates a task at the top of a list and returns it with its
// server-assigned ID.
func (c *Client) CreateTask(ctx context.Context, taskListID string, input TaskInput) (task *Task, err error) {
	if taskListID == "" {
		return nil, errors.New("task list ID is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("task title is required")
	}

	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceTasks, instrumentation.OperationCreate,
		instrumentation.ResourceAttrs(instrumentation.ResourceTypeTaskList, taskListID)...)
	defer func() { done(err) }()

	body := &tasks.Task{
		Title: input.Title,
		Notes: input.Notes,
	}
	if !input.Due.IsZero() {
		body.Due = input.Due.UTC().Format(time.RFC3339)
	}

	created, err := c.svc.Tasks.Insert(taskListID, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", google.NormalizeError(err))
	}

	result := toTask(created)
	return &result, nil
}
