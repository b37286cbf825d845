package drive

import (
	"time"

	drive "google.golang.org/api/drive/v3"
)

// File is a starred Drive file as the dashboard lists it.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`

	// Size is zero for folders and Google editor files, which Drive does not
	// measure.
	Size int64 `json:"size,omitempty"`

	// ModifiedTime is zero when Drive omitted it or sent an unparsable value.
	ModifiedTime time.Time `json:"modifiedTime"`

	WebViewLink string `json:"webViewLink,omitempty"`
	IconLink    string `json:"iconLink,omitempty"`

	// Owner is the first owner's display name, falling back to the address.
	Owner string `json:"owner,omitempty"`
}

func toFile(f *drive.File) File {
	if f == nil {
		return File{}
	}

	file := File{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		IconLink:    f.IconLink,
		Owner:       ownerName(f.Owners),
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		file.ModifiedTime = t
	}
	return file
}

func ownerName(owners []*drive.User) string {
	for _, o := range owners {
		switch {
		case o == nil:
		case o.DisplayName != "":
			return o.DisplayName
		case o.EmailAddress != "":
			return o.EmailAddress
		}
	}
	return ""
}
