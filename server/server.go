// Package server provides the My Mentor HTTP API.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ncecere/mymentor/metrics"
)

// StatusMessage is returned by GET /.
const StatusMessage = "My Mentor backend is running with OpenAI connection!"

// Route paths.
const (
	PathRoot    = "/"
	PathAsk     = "/ask"
	PathMetrics = "/metrics"
)

// routeUnmatched labels request metrics for requests no route handled.
const routeUnmatched = "unmatched"

// Asker answers a single question. *mentor.Asker implements it.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Options configures a Server.
type Options struct {
	// AllowOrigins is the CORS origin list. Empty means "*".
	AllowOrigins string
	// Logger receives request and error logs. If nil, log.Log is used.
	Logger log.Interface
	// Metrics, when non-nil, records request counts and serves GET /metrics.
	Metrics *metrics.Metrics
}

// Server is the My Mentor HTTP API server.
type Server struct {
	app     *fiber.App
	asker   Asker
	log     log.Interface
	metrics *metrics.Metrics
}

// New builds a Server whose /ask route delegates to asker.
func New(asker Asker, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Log
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	s := &Server{
		asker:   asker,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "mymentor",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.logRequests)
	s.app.Use(fiberrecover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodHead, fiber.MethodPut,
			fiber.MethodDelete, fiber.MethodPatch, fiber.MethodOptions,
		}, ","),
	}))

	s.app.Get(PathRoot, s.handleRoot)
	s.app.Post(PathAsk, s.handleAsk)
	if s.metrics != nil {
		s.app.Get(PathMetrics, adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on addr and blocks until ctx is canceled or the listener
// fails. On cancellation in-flight requests get up to ten seconds to finish.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

// logRequests writes one log entry per request and feeds request metrics.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	chainErr := c.Next()

	// Run the error handler now so the logged status is the one sent.
	if chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	route := c.Route().Path
	if isUnmatched(chainErr) {
		route = routeUnmatched
	}
	s.log.WithFields(log.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     status,
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	}).WithDuration(time.Since(start)).Info("request")

	if s.metrics != nil {
		s.metrics.ObserveRequest(route, status)
	}
	return nil
}

// isUnmatched reports whether err is the router's own "no route" error.
// Handlers never return 404 or 405, so the code alone identifies it.
func isUnmatched(err error) bool {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Code == fiber.StatusNotFound || fe.Code == fiber.StatusMethodNotAllowed
}

// handleError renders every error as {"detail": "..."}. Fiber errors keep
// their status code; anything else is a 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Detail: err.Error()})
}
