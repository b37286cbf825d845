package drive

import (
	"fmt"
	"strings"
	"time"
)

// Category is a coarse file kind derived from the MIME type.
type Category string

const (
	CategoryFolder       Category = "folder"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryImage        Category = "image"
	CategoryVideo        Category = "video"
	CategoryAudio        Category = "audio"
	CategoryOther        Category = "other"
)

// CategoryOf classifies a MIME type by substring. The first match wins, so
// "text/csv" is a document and a Google Sheets type is a spreadsheet.
func CategoryOf(mimeType string) Category {
	switch {
	case strings.Contains(mimeType, "folder"):
		return CategoryFolder
	case strings.Contains(mimeType, "document"), strings.Contains(mimeType, "text"):
		return CategoryDocument
	case strings.Contains(mimeType, "spreadsheet"), strings.Contains(mimeType, "excel"):
		return CategorySpreadsheet
	case strings.Contains(mimeType, "presentation"), strings.Contains(mimeType, "powerpoint"):
		return CategoryPresentation
	case strings.Contains(mimeType, "image"):
		return CategoryImage
	case strings.Contains(mimeType, "video"):
		return CategoryVideo
	case strings.Contains(mimeType, "audio"):
		return CategoryAudio
	default:
		return CategoryOther
	}
}

// FormatSize renders a byte count with binary units and one decimal, e.g.
// "512 B", "1.5 KB", "2.0 MB". Zero or negative sizes render as "".
func FormatSize(size int64) string {
	const unit = 1024

	switch {
	case size <= 0:
		return ""
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	case size < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(size)/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(unit*unit*unit))
	}
}

// RelativeTime renders how long ago t was: "5m ago" under an hour, "3h ago"
// under a day, "2d ago" under a week, then a short date such as "Jan 2".
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return t.In(now.Location()).Format("Jan 2")
	}
}
