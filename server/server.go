// Package server exposes page export and print documents over HTTP.
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/blake2b"

	"github.com/wudi/infosvg/assemble"
	"github.com/wudi/infosvg/export"
	"github.com/wudi/infosvg/fonts"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/recovery"
	"github.com/wudi/infosvg/snapshot"
	"github.com/wudi/infosvg/textfrag"
	"github.com/wudi/infosvg/transcribe"
)

const (
	// DefaultJobTTL is how long a print document stays retrievable.
	DefaultJobTTL = 10 * time.Minute
	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 32 << 20
)

// Server is an http.Handler serving the export endpoints.
type Server struct {
	router chi.Router
	jobs   *cache.Cache
	logger observability.Logger
	face   *fonts.Face

	rate       int
	rateWindow time.Duration
	jobTTL     time.Duration
	maxBody    int64
	assemble   []assemble.Option
	export     []export.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l observability.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit admits n requests per client IP and window. Zero disables
// limiting.
func WithRateLimit(n int, window time.Duration) Option {
	return func(s *Server) {
		s.rate = n
		s.rateWindow = window
	}
}

// WithJobTTL sets how long print documents are kept.
func WithJobTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.jobTTL = d
		}
	}
}

// WithMaxBodySize bounds snapshot uploads.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithFace measures text runs that arrive without captured glyphs.
func WithFace(face *fonts.Face) Option {
	return func(s *Server) { s.face = face }
}

// WithAssembleOptions appends options applied to every page assembly.
func WithAssembleOptions(opts ...assemble.Option) Option {
	return func(s *Server) { s.assemble = append(s.assemble, opts...) }
}

// WithExportOptions appends options applied to every exporter.
func WithExportOptions(opts ...export.Option) Option {
	return func(s *Server) { s.export = append(s.export, opts...) }
}

// New builds a server.
func New(opts ...Option) *Server {
	s := &Server{
		logger:  observability.NopLogger{},
		jobTTL:  DefaultJobTTL,
		maxBody: DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = cache.New(s.jobTTL, 2*s.jobTTL)
	s.router = chi.NewRouter()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	if s.rate > 0 {
		window := s.rateWindow
		if window <= 0 {
			window = time.Minute
		}
		s.router.Use(httprate.LimitByIP(s.rate, window))
	}

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/pages/{pageID}/svg", s.handlePageSVG)
	s.router.Post("/v1/print", s.handlePrint)
	s.router.Get("/v1/print/{id}", s.handleGetPrint)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			observability.String("request_id", middleware.GetReqID(r.Context())),
			observability.String("method", r.Method),
			observability.String("path", r.URL.Path),
			observability.Int("status", status),
			observability.Int("bytes", ww.BytesWritten()),
			observability.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// exporter decodes the snapshot in the request body and wires an exporter
// over it. Query parameter strict=1 fails on the first degraded node.
func (s *Server) exporter(w http.ResponseWriter, r *http.Request, extra ...export.Option) (*export.Exporter, bool) {
	snap, err := snapshot.Decode(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	var measurer textfrag.Measurer = textfrag.GlyphMeasurer{}
	if s.face != nil {
		measurer = textfrag.FallbackMeasurer{
			Primary:   textfrag.GlyphMeasurer{},
			Secondary: fonts.NewMeasurer(s.face, snap.Scale()),
		}
	}
	aopts := append([]assemble.Option{
		assemble.WithMeasurer(measurer),
		assemble.WithLogger(s.logger),
	}, s.assemble...)
	if strict(r) {
		aopts = append(aopts, assemble.WithRecovery(recovery.NewStrictStrategy()))
	} else {
		aopts = append(aopts, assemble.WithRecovery(&recovery.LenientStrategy{Logger: s.logger}))
	}

	eopts := append([]export.Option{export.WithLogger(s.logger)}, s.export...)
	eopts = append(eopts, extra...)
	return export.New(assemble.New(snap, aopts...), eopts...), true
}

func (s *Server) handlePageSVG(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	e, ok := s.exporter(w, r)
	if !ok {
		return
	}
	f, err := e.RenderPage(r.Context(), pageID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("page %q is not rendered", pageID))
		return
	}

	tag := etag(f.Data)
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", f.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

// PrintJob is the response of a print request.
type PrintJob struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Pages int    `json:"pages"`
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	surface := &jobSurface{jobs: s.jobs, ttl: s.jobTTL}
	e, ok := s.exporter(w, r, export.WithPrintSurface(surface))
	if !ok {
		return
	}
	if err := e.ExportAll(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PrintJob{
		ID:    surface.id,
		URL:   "/v1/print/" + surface.id,
		Pages: surface.pages,
	})
}

func (s *Server) handleGetPrint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid print job id %q", id))
		return
	}
	v, found := s.jobs.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("print job %q not found", id))
		return
	}
	doc := v.(*export.PrintDocument)
	tag := etag(doc.HTML)
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", export.MIMEType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.HTML)
}

// fail maps export errors to responses. A degradation that strict recovery
// failed on is a fault of the client's snapshot.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("export canceled", observability.Error("error", err))
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, transcribe.ErrDegraded):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.logger.Error("export failed",
			observability.String("request_id", middleware.GetReqID(r.Context())),
			observability.Error("error", err),
		)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func strict(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("strict"))
	return v
}

// jobSurface stores the print document of one request in the job cache.
type jobSurface struct {
	jobs  *cache.Cache
	ttl   time.Duration
	id    string
	pages int
}

func (j *jobSurface) Print(ctx context.Context, doc *export.PrintDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.id = uuid.NewString()
	j.pages = doc.Pages
	j.jobs.Set(j.id, doc, j.ttl)
	return nil
}

// etag is the quoted BLAKE2b-256 digest of data.
func etag(data []byte) string {
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
