package google

// DashboardScopes are the OAuth scopes requested on login: profile and email
// for the identity, read/write Tasks, and read-only Calendar and Drive.
var DashboardScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/tasks",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}
