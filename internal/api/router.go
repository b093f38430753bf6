package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/learnforge/learnforge/internal/api/handlers"
	"github.com/learnforge/learnforge/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux  *http.ServeMux
	app  *App
	gate *middleware.RateGate

	auth         *handlers.AuthHandler
	quiz         *handlers.QuizHandler
	review       *handlers.ReviewHandler
	viva         *handlers.VivaHandler
	progress     *handlers.ProgressHandler
	profile      *handlers.ProfileHandler
	quizzes      *handlers.QuizzesHandler
	messages     *handlers.MessagesHandler
	leaderboard  *handlers.LeaderboardHandler
	achievements *handlers.AchievementsHandler
	challenge    *handlers.ChallengeHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	// Initialize handlers
	r.auth = handlers.NewAuthHandler(app.Auth, !app.Config.Debug, app.Config.SessionMaxAge)
	r.quiz = handlers.NewQuizHandler(app.Quiz, app.LLMConfigured)
	r.review = handlers.NewReviewHandler(app.Review, app.LLMConfigured)
	r.viva = handlers.NewVivaHandler(app.Viva, app.LLMConfigured)
	r.progress = handlers.NewProgressHandler(app.Store, app.Events)
	r.profile = handlers.NewProfileHandler(app.Store)
	r.quizzes = handlers.NewQuizzesHandler(app.Store)
	r.messages = handlers.NewMessagesHandler(app.Store)
	r.leaderboard = handlers.NewLeaderboardHandler(app.Store)
	r.achievements = handlers.NewAchievementsHandler(app.Store, app.Events)
	r.challenge = handlers.NewChallengeHandler(app.Challenge)

	// Rate gate for the LLM-backed endpoints only (skipped in debug mode)
	if app.Config.RateLimitEnable && !app.Config.Debug {
		r.gate = middleware.NewRateGate(app.Config.RateLimit, app.Config.RateWindow)
	}

	// Register routes
	r.registerRoutes()

	// Build middleware chain
	return r.buildMiddlewareChain(r.mux)
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Generation endpoints (no session, rate-gated per client IP)
	r.mux.HandleFunc("POST /api/generate-mcqs", r.rateGated(r.quiz.Generate))
	r.mux.HandleFunc("POST /api/review-project", r.rateGated(r.review.Review))
	r.mux.HandleFunc("POST /api/viva-chat", r.rateGated(r.viva.Chat))

	// Auth
	r.mux.HandleFunc("POST /api/v1/auth/register", r.auth.Register)
	r.mux.HandleFunc("POST /api/v1/auth/login", r.auth.Login)
	r.mux.HandleFunc("POST /api/v1/auth/logout", r.auth.Logout)
	r.mux.HandleFunc("GET /api/v1/auth/me", r.auth.Me)

	// Per-user records (requires session)
	r.mux.HandleFunc("GET /api/user-progress", r.requireAuth(r.progress.List))
	r.mux.HandleFunc("POST /api/user-progress", r.requireAuth(r.progress.Record))
	r.mux.HandleFunc("GET /api/user-profile", r.requireAuth(r.profile.Get))
	r.mux.HandleFunc("POST /api/user-profile", r.requireAuth(r.profile.Save))
	r.mux.HandleFunc("GET /api/custom-quizzes", r.requireAuth(r.quizzes.List))
	r.mux.HandleFunc("POST /api/custom-quizzes", r.requireAuth(r.quizzes.Create))
	r.mux.HandleFunc("GET /api/messages", r.requireAuth(r.messages.List))
	r.mux.HandleFunc("POST /api/messages", r.requireAuth(r.messages.Send))
	r.mux.HandleFunc("GET /api/achievements", r.requireAuth(r.achievements.List))
	r.mux.HandleFunc("POST /api/achievements", r.requireAuth(r.achievements.Unlock))

	// Public records
	r.mux.HandleFunc("GET /api/leaderboard", r.leaderboard.List)
	r.mux.HandleFunc("POST /api/leaderboard", r.leaderboard.Add)
	r.mux.HandleFunc("GET /api/daily-challenge", r.challenge.Today)
}

func (r *Router) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// rateGated wraps a generation handler with the fixed-window gate.
func (r *Router) rateGated(next http.HandlerFunc) http.HandlerFunc {
	if r.gate == nil {
		return next
	}
	limited := middleware.RateLimit(r.gate)(next)
	return limited.ServeHTTP
}

// requireAuth wraps a handler with authentication. The session token comes
// from the session cookie or an Authorization bearer header; without a
// valid one the request is refused before any store access.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token := sessionToken(req)
		if token == "" {
			handlers.Unauthorized(w, req, "authentication required")
			return
		}

		user, _, err := r.app.Auth.ValidateSession(req.Context(), token)
		if err != nil {
			slog.Warn("invalid session",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			handlers.Unauthorized(w, req, "invalid or expired session")
			return
		}

		// Add user to context
		ctx := context.WithValue(req.Context(), handlers.ContextKeyUser, user)
		next(w, req.WithContext(ctx))
	}
}

func sessionToken(req *http.Request) string {
	if cookie, err := req.Cookie("session"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := req.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	r.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	// Check store connectivity
	if err := r.app.Store.Ping(req.Context()); err != nil {
		slog.Error("store health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		r.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": map[string]string{
				"store": "unhealthy",
			},
		})
		return
	}

	r.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{
			"store": "healthy",
		},
	})
}

// Helper for JSON responses
func (r *Router) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
