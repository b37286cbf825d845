package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	tests := map[string]Category{
		"application/vnd.google-apps.folder":       CategoryFolder,
		"application/vnd.google-apps.document":     CategoryDocument,
		"text/plain":                               CategoryDocument,
		"application/vnd.google-apps.spreadsheet":  CategorySpreadsheet,
		"application/vnd.ms-excel":                 CategorySpreadsheet,
		"application/vnd.google-apps.presentation": CategoryPresentation,
		"application/vnd.ms-powerpoint":            CategoryPresentation,
		"image/png":                                CategoryImage,
		"video/mp4":                                CategoryVideo,
		"audio/mpeg":                               CategoryAudio,
		"application/pdf":                          CategoryOther,
		"":                                         CategoryOther,
	}

	for mime, want := range tests {
		assert.Equal(t, want, CategoryOf(mime), "CategoryOf(%q)", mime)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5*1024*1024 + 512*1024, "5.5 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.size), "FormatSize(%d)", tt.size)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"just now", now, "0m ago"},
		{"in the future", now.Add(time.Minute), "0m ago"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"under an hour", now.Add(-59 * time.Minute), "59m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-50 * time.Hour), "2d ago"},
		{"a week", now.Add(-7 * 24 * time.Hour), "Mar 3"},
		{"long ago", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "Jan 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.at, now))
		})
	}
}
