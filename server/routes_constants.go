package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome = "/"

	// Auth routes
	RouteLogin           = "/auth/login"
	RouteRegisterRequest = "/auth/register-request"
	RouteLogout          = "/logout"

	// Public browsing routes
	RouteEvents    = "/events"
	RouteLocations = "/locations"

	// Profile routes (authenticated)
	RouteMe         = "/me"
	RouteMePassword = "/me/password"

	// Moderation routes (ROLE_MANAGER)
	RouteReviewHide = "/reviews/{id}/hide"

	// Admin routes (ROLE_ADMIN)
	RouteAdminDashboard       = "/admin"
	RouteAdminRequests        = "/admin/requests"
	RouteAdminRequestsProcess = "/admin/requests/process"
)

// ReturnURLParam carries the originally requested path through the
// login flow.
const ReturnURLParam = "returnUrl"
