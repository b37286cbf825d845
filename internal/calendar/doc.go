// Package calendar provides a read-only client for upcoming Google Calendar
// events and the helpers that label and group them by day.
package calendar
