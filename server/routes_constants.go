package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteLoginPage = "/"
	RouteDoLogin   = "/do-login"
	RouteDashboard = "/dashboard"
	RouteLogout    = "/logout"
)
