package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/equivalency"
	"github.com/poiesic/coursefinder/qa"
	"github.com/poiesic/coursefinder/search"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func errorBody(message string) fiber.Map {
	return fiber.Map{"status": statusError, "message": message}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody(message))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSaveLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := s.validator.check(&req); err != nil {
		return badRequest(c, err.Error())
	}
	loc := core.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}

	id := c.Cookies(SessionCookie)
	if !validID(id) {
		id = s.sessions.NewID()
	}
	if !s.sessions.Save(id, loc) {
		s.logger.Error("session store dropped location", "session", id)
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorBody("Could not save location, please retry"))
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(s.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	// Distances are best effort here; searches recompute on a cache miss.
	if err := s.searcher.WarmDistances(c.UserContext(), loc); err != nil {
		s.logger.Warn("could not warm distance cache", "err", err)
	}

	return c.JSON(fiber.Map{
		"status":    statusSuccess,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
	})
}

func (s *Server) handleSearchByTitle(c *fiber.Ctx) error {
	req, loc, err := s.parseSearch(c, "Search term is required")
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	results, err := s.searcher.SearchByTitle(c.UserContext(), req.SearchTerm, loc)
	if err != nil {
		return s.searchFailed(c, err)
	}
	if len(results) == 0 {
		return noResults(c)
	}
	return c.JSON(fiber.Map{
		"status":     statusSuccess,
		"searchTerm": req.SearchTerm,
		"courses":    results,
	})
}

func (s *Server) handleSearchByCode(c *fiber.Ctx) error {
	req, loc, err := s.parseSearch(c, "Course code is required")
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	results, err := s.searcher.SearchByCode(c.UserContext(), req.SearchTerm, loc)
	if err != nil {
		return s.searchFailed(c, err)
	}
	if len(results) == 0 {
		return noResults(c)
	}
	return c.JSON(fiber.Map{
		"status":     statusSuccess,
		"courseCode": req.SearchTerm,
		"courses":    results,
	})
}

func (s *Server) handleSearchByProfessor(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.SearchTerm = strings.TrimSpace(req.SearchTerm)
	if req.SearchTerm == "" {
		return badRequest(c, "Search term is required")
	}

	results, err := s.searcher.SearchByProfessor(c.UserContext(), req.SearchTerm)
	if err != nil {
		return s.searchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"status":     statusSuccess,
		"searchTerm": req.SearchTerm,
		"results":    results,
	})
}

func (s *Server) handleAskQuestion(c *fiber.Ctx) error {
	if s.assistant == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorBody("Question answering is not configured"))
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := s.validator.check(&req); err != nil {
		if req.Question == "" {
			return badRequest(c, "Question is required")
		}
		return badRequest(c, err.Error())
	}

	answer, err := s.assistant.Answer(c.UserContext(), req.Question, req.ConversationHistory)
	if err != nil {
		return s.searchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"status":           statusSuccess,
		"answer":           answer.Answer,
		"relevant_courses": answer.RelevantCourses,
	})
}

// parseSearch decodes and validates a title or code search. A nil request
// with a nil error means the error response has already been written.
func (s *Server) parseSearch(c *fiber.Ctx, missingTerm string) (*searchRequest, *core.Location, error) {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, badRequest(c, "Invalid request body")
	}
	req.SearchTerm = strings.TrimSpace(req.SearchTerm)
	if req.SearchTerm == "" {
		return nil, nil, badRequest(c, missingTerm)
	}
	if err := s.validator.check(&req); err != nil {
		return nil, nil, badRequest(c, err.Error())
	}

	loc := req.location()
	if loc == nil {
		if saved, ok := s.sessions.Location(c.Cookies(SessionCookie)); ok {
			loc = &saved
		}
	}
	if loc == nil && s.requireLocation {
		return nil, nil, badRequest(c, "Location not set")
	}
	return &req, loc, nil
}

func noResults(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "No results found",
		"courses": []core.CourseResult{},
	})
}

// searchFailed maps domain errors onto HTTP statuses.
func (s *Server) searchFailed(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "status", status, "err", err)
	}
	return c.Status(status).JSON(errorBody(message))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return fiber.StatusBadRequest, "Search term is required"
	case errors.Is(err, qa.ErrEmptyQuestion):
		return fiber.StatusBadRequest, "Question is required"
	case errors.Is(err, core.ErrInvalidLocation):
		return fiber.StatusBadRequest, "Invalid location"
	case errors.Is(err, search.ErrIndexUnavailable):
		return fiber.StatusServiceUnavailable, "Search functionality is disabled"
	case errors.Is(err, search.ErrLookupFailed),
		errors.Is(err, qa.ErrRetrievalFailed),
		errors.Is(err, qa.ErrGenerationFailed):
		return fiber.StatusBadGateway, "An error occurred: " + err.Error()
	case errors.Is(err, equivalency.ErrTableUnavailable):
		return fiber.StatusInternalServerError, "Equivalency data unavailable"
	default:
		return fiber.StatusInternalServerError, "An error occurred: " + err.Error()
	}
}

// handleError renders router and middleware errors in the JSON error shape.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("unhandled error", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(errorBody(err.Error()))
}
