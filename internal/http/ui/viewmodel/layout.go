package viewmodel

// User represents the signed-in staff member exposed to templates.
type User struct {
	Username    string
	DisplayName string
	Role        string
}

// IsAdmin reports whether the user may manage staff accounts.
func (u *User) IsAdmin() bool { return u != nil && u.Role == "admin" }

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	CanManageUsers  bool
	User            *User
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
