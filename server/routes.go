package server

import "github.com/newnow-platform/newnow-web/identity"

func (s *Server) initRoutes() {
	// Public pages
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEvents, ChainMiddleware(s.EventsPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLocations, ChainMiddleware(s.LocationsPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLocations+"/{id}", ChainMiddleware(s.LocationDetailsHandler(), s.HTMLMiddleware()...))

	// Auth pages
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteRegisterRequest, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRegisterRequest, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))

	// Profile (authenticated only)
	s.RegisterRouteFunc("GET "+RouteMe, ChainMiddleware(s.MePageHandler(), s.HTMLMiddleware(s.RequireAuthenticated())...))
	s.RegisterRouteFunc("POST "+RouteMe, ChainMiddleware(s.UpdateProfileHandler(), s.HTMLMiddleware(s.RequireAuthenticated())...))
	s.RegisterRouteFunc("POST "+RouteMePassword, ChainMiddleware(s.ChangePasswordHandler(), s.HTMLMiddleware(s.RequireAuthenticated())...))

	// Moderation (ROLE_MANAGER only)
	s.RegisterRouteFunc("POST "+RouteReviewHide, ChainMiddleware(s.HideReviewHandler(), s.HTMLMiddleware(s.RequireRole(identity.RoleManager))...))

	// Admin (ROLE_ADMIN only)
	s.RegisterRouteFunc("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleware(s.RequireRole(identity.RoleAdmin))...))
	s.RegisterRouteFunc("GET "+RouteAdminRequests, ChainMiddleware(s.AdminRequestsHandler(), s.HTMLMiddleware(s.RequireRole(identity.RoleAdmin))...))
	s.RegisterRouteFunc("POST "+RouteAdminRequestsProcess, ChainMiddleware(s.ProcessRequestHandler(), s.HTMLMiddleware(s.RequireRole(identity.RoleAdmin))...))
}
