package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/instrumentation"
)

const (
	// PrimaryCalendar is the calendar ID of the user's main calendar.
	PrimaryCalendar = "primary"

	// DefaultWindowDays is how far ahead the dashboard looks.
	DefaultWindowDays = 7

	// MaxEvents caps the number of events fetched per call.
	MaxEvents = 50
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	metrics *instrumentation.Metrics
	now     func() time.Time
}

// NewClient creates a Calendar client that authenticates every request with
// the current token from ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(google.NewHTTPClient(ts))}, opts...)

	svc, err := calendar.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc, now: time.Now}, nil
}

// WithMetrics records every call on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// WithClock replaces the clock used to compute the time window.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// ListEvents returns the events of calendarID between now and now+windowDays,
// recurring events expanded into instances, ordered by start time and capped
// at MaxEvents.
func (c *Client) ListEvents(ctx context.Context, calendarID string, windowDays int) (events []Event, err error) {
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	if windowDays <= 0 {
		return nil, errors.New("window must be at least one day")
	}

	ctx, done := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationList,
		instrumentation.ResourceAttrs(instrumentation.ResourceTypeCalendar, calendarID)...)
	defer func() { done(err) }()

	now := c.now()
	result, err := c.svc.Events.List(calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, windowDays).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(MaxEvents).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", google.NormalizeError(err))
	}

	events = make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}

	return events, nil
}
