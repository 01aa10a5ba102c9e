package server

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLoginPage, s.LoginPageHandler())
	s.RegisterRouteFunc("POST "+RouteDoLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())

	// PROTECTED
	s.RegisterRouteFunc("GET "+RouteDashboard,
		ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
}
