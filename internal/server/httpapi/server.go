// Package httpapi is the HTTP boundary of the server. It maps verbs and paths
// to the account and message services and domain outcomes to status codes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/logging"
	"github.com/dmitrijs2005/socialmedia/internal/server/metrics"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
	"github.com/dmitrijs2005/socialmedia/internal/server/services"
	"github.com/gorilla/mux"
)

// AccountService is the subset of services.AccountService used by the API.
type AccountService interface {
	Register(ctx context.Context, candidate *models.Account) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
}

// MessageService is the subset of services.MessageService used by the API.
type MessageService interface {
	Create(ctx context.Context, candidate *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
	ListByAuthor(ctx context.Context, accountID int64) ([]*models.Message, error)
	UpdateText(ctx context.Context, id int64, text string) (*models.Message, error)
	Delete(ctx context.Context, id int64) (services.DeleteResult, error)
}

// Pinger reports database reachability for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address         string
	accounts        AccountService
	messages        MessageService
	db              Pinger
	metrics         *metrics.Metrics
	logger          logging.Logger
	shutdownTimeout time.Duration
	router          *mux.Router
}

func NewServer(a string, l logging.Logger, as AccountService, ms MessageService, db Pinger, m *metrics.Metrics, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         a,
		accounts:        as,
		messages:        ms,
		db:              db,
		metrics:         m,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.metrics.Middleware(), s.accessLog)

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)

	r.HandleFunc("/messages", s.createMessage).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", s.getMessage).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", s.deleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/messages/{id}", s.updateMessage).Methods(http.MethodPatch)

	r.HandleFunc("/accounts/{id}/messages", s.listAccountMessages).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is done, then shuts down gracefully, waiting up
// to shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
