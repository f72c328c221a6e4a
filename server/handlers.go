package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	dispatcherx "github.com/touchbase-labs/touchbase/assistant/agents/dispatcher"
)

type replyRequest struct {
	Message string `json:"message"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) dailySuggestion(c echo.Context) error {
	res, err := s.assistant.DailySuggestion(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	if res.Suggestion == nil {
		return c.JSON(http.StatusOK, map[string]any{
			"message":    res.Message,
			"suggestion": nil,
		})
	}
	return c.JSON(http.StatusOK, res.Suggestion)
}

func (s *Server) processReply(c echo.Context) error {
	var req replyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	reply, err := s.assistant.ProcessReply(c.Request().Context(), req.Message)
	if err != nil {
		if errors.Is(err, dispatcherx.ErrInvalidMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is empty"})
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": reply})
}

// internalError logs the cause and answers with a stable body that leaks
// no internals.
func internalError(c echo.Context, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
