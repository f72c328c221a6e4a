// Package server exposes the assistant over HTTP.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

// Assistant is the slice of the dispatcher the HTTP layer needs.
type Assistant interface {
	DailySuggestion(ctx context.Context) (contractx.SuggestionResult, error)
	ProcessReply(ctx context.Context, text string) (string, error)
}

type Server struct {
	echo      *echo.Echo
	assistant Assistant
}

func New(assistant Assistant) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	s := &Server{echo: e, assistant: assistant}
	e.GET("/", s.health)
	e.GET("/daily-suggestion", s.dailySuggestion)
	e.POST("/process-reply", s.processReply)
	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
