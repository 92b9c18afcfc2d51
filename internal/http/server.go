package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"finbuddy/internal/auth"
	"finbuddy/internal/cache"
	"finbuddy/internal/charts"
	"finbuddy/internal/chat"
	"finbuddy/internal/ledger"
	applog "finbuddy/internal/log"
	"finbuddy/internal/metrics"
	"finbuddy/internal/middleware/ratelimit"
	"finbuddy/internal/middleware/security"
	"finbuddy/internal/middleware/trace"
	"finbuddy/internal/preview"
	"finbuddy/internal/storage"
	appweb "finbuddy/web"
)

// Deps are the collaborators of the server. Ledger and Store are required;
// the rest fall back to defaults.
type Deps struct {
	Ledger *ledger.Ledger
	Store  storage.Store
	Keys   storage.Keys

	Auth    *auth.Demo
	Chat    *chat.Responder
	Charts  *charts.Cached
	Metrics *metrics.Metrics
	Logger  *applog.Logger

	PreviewLimit   int
	RateLimit      ratelimit.Config
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template

	ledger       *ledger.Ledger
	store        storage.Store
	keys         storage.Keys
	auth         *auth.Demo
	chat         *chat.Responder
	charts       *charts.Cached
	metrics      *metrics.Metrics
	logger       *applog.Logger
	slog         *applog.StructuredLogger
	previewLimit int

	detector *security.Detector
	limiter  *ratelimit.Limiter
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.Chat == nil {
		deps.Chat = chat.NewResponder(chat.DefaultRules())
	}
	if deps.Charts == nil {
		deps.Charts = charts.NewCached(charts.NewRenderer(), cache.NewLRUCache[[]byte](32, 10*time.Minute))
	}
	if deps.Auth == nil {
		deps.Auth = auth.NewDemo(deps.Store, deps.Keys)
	}
	if deps.PreviewLimit < 1 {
		deps.PreviewLimit = preview.DefaultLimit
	}
	if deps.RateLimit.RequestsPerSecond <= 0 {
		deps.RateLimit = ratelimit.DefaultConfig()
	}

	logger := deps.Logger.WithComponent(applog.ComponentHTTP)
	mux := http.NewServeMux()
	s := &Server{
		ledger:       deps.Ledger,
		store:        deps.Store,
		keys:         deps.Keys,
		auth:         deps.Auth,
		chat:         deps.Chat,
		charts:       deps.Charts,
		metrics:      deps.Metrics,
		logger:       logger,
		slog:         applog.NewStructuredLogger(logger),
		previewLimit: deps.PreviewLimit,
		detector:     security.NewDetector(),
		limiter:      ratelimit.NewLimiter(deps.RateLimit),
		started:      time.Now(),
	}

	for _, cidr := range deps.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", "cidr", cidr, "error", err)
		}
	}

	t, err := template.New("").Funcs(template.FuncMap{
		"rupees": formatRupees,
		"amount": formatAmount,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	s.route(mux, "GET /{$}", s.handleIndex)
	s.route(mux, "GET /ui/ledger", s.handleLedgerPartial)
	s.route(mux, "GET /ui/charts", s.handleChartsPartial)
	s.route(mux, "POST /budget", s.limited(s.handleSetBudget))
	s.route(mux, "POST /expenses", s.limited(s.handleAddExpense))
	s.route(mux, "POST /expenses/delete", s.limited(s.handleDeleteExpense))
	s.route(mux, "POST /reset", s.limited(s.handleReset))
	s.route(mux, "GET /charts/{file}", s.handleChart)
	s.route(mux, "POST /tools/csv", s.limited(s.handleCSVPreview))
	s.route(mux, "POST /tools/sip", s.limited(s.handleSIP))
	s.route(mux, "POST /tools/tax", s.limited(s.handleTax))
	s.route(mux, "POST /chat", s.limited(s.handleChat))
	s.route(mux, "GET /chat/stream", s.handleChatStream)
	s.route(mux, "POST /auth/signup", s.limited(s.handleSignup))
	s.route(mux, "POST /auth/login", s.limited(s.handleLogin))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, s.metrics)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(s.detector.Middleware(headers.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// route registers h with a request-scoped logger. The logger is attached
// inside the mux so the trace middleware still sees the matched pattern.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	withLogger := applog.RequestIDMiddleware(s.logger, func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})
	mux.Handle(pattern, withLogger(h))
}

// limited applies the per-client rate limit to state-changing handlers.
func (s *Server) limited(h http.HandlerFunc) http.HandlerFunc {
	mw := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		fields := applog.NewFields().
			WithRequestID(trace.GetRequestID(r.Context())).
			WithClientIP(s.detector.ExtractClientIP(r))
		s.logger.WarnContext(r.Context(), "Rate limit exceeded", append(fields.ToSlice(), "path", r.URL.Path)...)
		ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").Write(w)
	})
	return mw(h).ServeHTTP
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// render executes a named template, answering 500 when templates are missing.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name,
			"error", err)
	}
}
