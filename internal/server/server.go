// Package server exposes the match, comparison, justification and course
// operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/auth"
	"github.com/abhisek/outlines/internal/logger"
	"github.com/abhisek/outlines/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	CORSOrigins []string
	Logger      *logger.Logger
}

// Server serves the HTTP API.
type Server struct {
	svc    *service.Service
	issuer *auth.Issuer
	log    *logger.Logger
	engine *gin.Engine
}

var registerTagNames sync.Once

// New builds the router.
func New(svc *service.Service, issuer *auth.Issuer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonName)
		}
	})

	s := &Server{
		svc:    svc,
		issuer: issuer,
		log:    opts.Logger.With("component", "server"),
	}
	s.engine = s.routes(opts.CORSOrigins)
	return s
}

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))
	if len(origins) > 0 {
		r.Use(CORS(origins))
	}

	// Public
	r.GET("/healthz", s.health)

	// Protected
	protected := r.Group("/api")
	protected.Use(RequireAuth(s.issuer, s.log))

	protected.POST("/ccn/match", s.match)
	protected.POST("/ccn/compare", s.compare)

	protected.GET("/standards", s.listStandards)
	protected.GET("/standards/:id", s.getStandard)

	protected.GET("/courses", s.listCourses)
	protected.GET("/courses/:id", s.getCourse)
	protected.PATCH("/courses/:id", s.updateCourse)
	protected.GET("/courses/:id/justifications", s.listJustifications)
	protected.POST("/courses/:id/justifications", s.submitJustification)
	protected.GET("/courses/:id/audit", s.audit)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", addr, "catalog_version", s.svc.Catalog().Version())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// abortWith writes the error envelope.
func abortWith(c *gin.Context, st *api.StatusError) {
	c.AbortWithStatusJSON(st.Status, api.ErrorEnvelope{Error: api.ErrorBody{
		Message: st.Message,
		Code:    st.Code,
		Details: st.Details,
	}})
}

func (s *Server) fail(c *gin.Context, err error) {
	st := service.StatusOf(err)
	if st.Status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	abortWith(c, st)
}

// bindError converts a binding failure to a 400.
func bindError(err error) *api.StatusError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			switch fe.Tag() {
			case "required":
				details[fe.Field()] = "is required"
			case "gt":
				details[fe.Field()] = "must be greater than " + fe.Param()
			default:
				details[fe.Field()] = "is invalid"
			}
		}
		return &api.StatusError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Request is invalid", Details: details}
	}
	return &api.StatusError{Status: http.StatusBadRequest, Code: "bad_request", Message: "Malformed JSON body"}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
