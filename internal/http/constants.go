package httpx

// CurrentPage constants identify pages for navigation state and template lookup.
const (
	PageVisitors = "visitors"
	PageUsers    = "users"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Session and HTMX event names shared by handlers and templates.
const (
	sessionCookieName = "session_id"

	eventVisitorsChanged = "visitorsChanged"
	eventUsersChanged    = "usersChanged"
	eventShowToast       = "showToast"
)

// Toast messages for the add-user workflow.
const (
	msgUserAdded     = "User added successfully"
	msgUserAddFailed = "Failed to add user"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageVisitors: "visitors-content",
	PageUsers:    "users-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to visitors-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "visitors-content"
}
