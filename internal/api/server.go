// Package api exposes the converter over HTTP.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmtconv/internal/buildinfo"
	"github.com/cleared-dev/stmtconv/internal/config"
	"github.com/cleared-dev/stmtconv/internal/convert"
	"github.com/cleared-dev/stmtconv/internal/errs"
)

// HeaderRequestID carries the per-request id on every response.
const HeaderRequestID = "X-Request-ID"

const localRequestID = "requestID"

// Server serves the conversion API.
type Server struct {
	app  *fiber.App
	conv *convert.Converter
	log  logrus.FieldLogger
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// New builds the fiber app and registers its routes.
func New(conv *convert.Converter, cfg config.ServerConfig, log logrus.FieldLogger) *Server {
	s := &Server{conv: conv, log: log}
	s.app = fiber.New(fiber.Config{
		AppName:               "stmtconv",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(s.requestID, s.accessLog)
	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/convert", s.handleConvert)
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(localRequestID, id)
	c.Set(HeaderRequestID, id)
	return c.Next()
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.WithFields(logrus.Fields{
		"request_id": c.Locals(localRequestID),
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     c.Response().StatusCode(),
		"elapsed":    time.Since(start).String(),
	}).Info("request")
	return err
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	from, err := convert.ParseFormat(c.Query("from", string(convert.Auto)))
	if err != nil {
		return s.fail(c, fiber.StatusBadRequest, err)
	}
	to, err := convert.ParseFormat(c.Query("to"))
	if err != nil {
		return s.fail(c, fiber.StatusBadRequest, err)
	}
	if to == convert.Auto {
		return s.fail(c, fiber.StatusBadRequest, errors.New("query parameter \"to\" must name a target format"))
	}

	out, err := s.conv.Convert(c.Body(), from, to)
	if err != nil {
		return s.fail(c, fiber.StatusUnprocessableEntity, err)
	}

	c.Set(fiber.HeaderContentType, contentType(to))
	return c.Send(out)
}

func (s *Server) fail(c *fiber.Ctx, status int, err error) error {
	s.log.WithFields(logrus.Fields{
		"request_id": c.Locals(localRequestID),
		"status":     status,
	}).WithError(err).Warn("request failed")

	id, _ := c.Locals(localRequestID).(string)
	return c.Status(status).JSON(ErrorResponse{
		Error:     err.Error(),
		Kind:      errorKind(err),
		RequestID: id,
	})
}

// handleError renders errors fiber raises itself, such as oversized bodies
// and unknown routes.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return s.fail(c, status, err)
}

func contentType(f convert.Format) string {
	switch f {
	case convert.CAMT053, convert.XML:
		return fiber.MIMEApplicationXMLCharsetUTF8
	case convert.CSV:
		return "text/csv; charset=utf-8"
	}
	return fiber.MIMETextPlainCharsetUTF8
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{errs.ErrMissingBalance, "missing_balance"},
	{errs.ErrInvalidIndicator, "invalid_indicator"},
	{errs.ErrInvalidBalance, "invalid_balance"},
	{errs.ErrInvalidTransaction, "invalid_transaction"},
	{errs.ErrMissingBlock, "missing_block"},
	{errs.ErrMalformedEnvelope, "malformed_envelope"},
	{errs.ErrUnsupportedConversion, "unsupported_conversion"},
	{convert.ErrUnknownFormat, "unknown_format"},
}

// errorKind names the most specific error kind in err's chain.
func errorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
