// Package drive lists the user's starred Google Drive files.
//
// Only the metadata the dashboard shows is requested: a fixed field
// projection, starred and not trashed, newest first, at most 20 files.
// format.go holds the category, size and relative time helpers.
package drive
