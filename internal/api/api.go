package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/statement-ledger/internal/auth"
	"github.com/sheikh-saqib/statement-ledger/internal/config"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

// StatementService is the ledger surface exposed over HTTP.
type StatementService interface {
	CreateStatement(ctx context.Context, userID string, opType models.OperationType, amount decimal.Decimal, description string) (models.Operation, error)
	GetBalance(ctx context.Context, userID string) (models.Balance, error)
	GetStatementOperation(ctx context.Context, userID, statementID string) (models.Operation, error)
}

type ctxKey string

const userIDKey ctxKey = "user_id"

type APIServer struct {
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	ledger    StatementService
	jwtSecret string
}

func New(cfg *config.Config, logger *zap.Logger, ledger StatementService) *APIServer {
	s := &APIServer{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		ledger:    ledger,
		jwtSecret: cfg.JWT.Secret,
	}
	s.configureRouter()
	return s
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mostly for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *APIServer) configureRouter() {
	router := mux.NewRouter()
	router.Use(s.logRequests)
	router.HandleFunc("/health", s.healthHandler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/statements", s.authenticate(s.createTypedStatementHandler())).Methods(http.MethodPost)
	api.HandleFunc("/statements/balance", s.authenticate(s.balanceHandler())).Methods(http.MethodGet)
	api.HandleFunc("/statements/deposit", s.authenticate(s.createStatementHandler(models.OperationTypeDeposit))).Methods(http.MethodPost)
	api.HandleFunc("/statements/withdraw", s.authenticate(s.createStatementHandler(models.OperationTypeWithdraw))).Methods(http.MethodPost)
	api.HandleFunc("/statements/{statement_id}", s.authenticate(s.statementOperationHandler())).Methods(http.MethodGet)

	s.server.Handler = router
}

func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			writeError(w, http.StatusUnauthorized, "token missing")
			return
		}

		parts := strings.Split(tokenHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "malformed token")
			return
		}

		userID, err := auth.ParseToken(parts[1], s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		next(w, r)
	}
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *APIServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
