// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/qa"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "cf_session"

// ErrSearcherRequired is returned when a server is created without a searcher.
var ErrSearcherRequired = errors.New("course searcher required")

// CourseSearcher runs the course searches. *search.Searcher satisfies it.
type CourseSearcher interface {
	SearchByTitle(ctx context.Context, query string, loc *core.Location) ([]core.CourseResult, error)
	SearchByCode(ctx context.Context, suffix string, loc *core.Location) ([]core.CourseResult, error)
	SearchByProfessor(ctx context.Context, name string) ([]core.ProfessorResult, error)
	WarmDistances(ctx context.Context, loc core.Location) error
}

// QuestionAnswerer answers free-text questions. *qa.Assistant satisfies it.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, history []ai.Message) (*qa.Answer, error)
}

// Server is the HTTP front end.
type Server struct {
	app             *fiber.App
	searcher        CourseSearcher
	assistant       QuestionAnswerer
	sessions        *SessionStore
	validator       *requestValidator
	sessionTTL      time.Duration
	maxSessions     int64
	requireLocation bool
	accessLog       io.Writer
	logger          *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithAssistant enables /ask_question.
func WithAssistant(assistant QuestionAnswerer) Option {
	return func(s *Server) error {
		s.assistant = assistant
		return nil
	}
}

// WithSessionTTL sets how long a saved location lives.
// Default is 24 hours.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) error {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
		return nil
	}
}

// WithMaxSessions bounds the number of stored sessions.
// Default is 100000.
func WithMaxSessions(n int64) Option {
	return func(s *Server) error {
		if n > 0 {
			s.maxSessions = n
		}
		return nil
	}
}

// WithRequireLocation controls whether title and code searches are rejected
// without a location. Default is true.
func WithRequireLocation(required bool) Option {
	return func(s *Server) error {
		s.requireLocation = required
		return nil
	}
}

// WithAccessLog writes one line per request to w. Default is no access log.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) error {
		s.accessLog = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) error {
		if l == nil {
			l = slog.Default()
		}
		s.logger = l
		return nil
	}
}

// New creates a server and registers its routes.
func New(searcher CourseSearcher, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	s := &Server{
		searcher:        searcher,
		validator:       newRequestValidator(),
		sessionTTL:      24 * time.Hour,
		maxSessions:     100000,
		requireLocation: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	sessions, err := NewSessionStore(s.sessionTTL, s.maxSessions)
	if err != nil {
		return nil, err
	}
	s.sessions = sessions

	s.app = fiber.New(fiber.Config{
		AppName:               "coursefinder",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	if s.accessLog != nil {
		s.app.Use(logger.New(logger.Config{Output: s.accessLog}))
	}
	s.app.Use(recover.New())
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Post("/save_location", s.handleSaveLocation)
	s.app.Post("/search_by_title", s.handleSearchByTitle)
	s.app.Post("/search_by_code", s.handleSearchByCode)
	s.app.Post("/search_by_professor", s.handleSearchByProfessor)
	s.app.Post("/ask_question", s.handleAskQuestion)
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests, waits for in-flight ones to finish
// and releases the session store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.sessions.Close()
	return err
}
