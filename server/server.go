package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/kienminhkhai84-max/learngate/exchange"
	"github.com/kienminhkhai84-max/learngate/internal/config"
	"github.com/pkg/errors"
)

// Server is the thin HTTP surface over the credential exchange engine.
// It owns route wiring, cookie handling and page rendering; everything
// with real failure modes lives in the exchange and portal packages.
type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	exchange *exchange.Service
}

func New(cfg config.Config, exchangeService *exchange.Service) (*Server, error) {
	if exchangeService == nil {
		return nil, errors.New("[Server New] exchange service is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		exchange: exchangeService,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
