package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"fieldops-console/internal/config"
	"fieldops-console/internal/gateway"
	"fieldops-console/internal/logging"
	"fieldops-console/internal/modal"
	"fieldops-console/internal/notify"
	"fieldops-console/internal/policy"
	"fieldops-console/internal/session"
	"fieldops-console/internal/workflows"
)

func main() {
	if err := run(); err != nil {
		logger := logging.Default()
		logger.Fatal().Err(err).Msg("console server stopped")
	}
}

func run() error {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	logger, err := logging.New(cfg.Env, os.Stdout)
	if err != nil {
		return err
	}

	board := notify.NewBoard(cfg.Notify.TTL)
	defer board.Close()

	api := gateway.New(cfg.API.BaseURL, cfg.API.RequestTimeout, logger)
	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.SecureCookie)
	ui := newUIServer(api, codec, board, logger)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           newRouter(ui, cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("host", cfg.HTTP.Host).
			Str("port", cfg.HTTP.Port).
			Str("api", cfg.API.BaseURL).
			Msg("console listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen and serve http: %w", err)
	case <-quit:
	}

	logger.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	logger.Info().Msg("shut down http server")
	return nil
}

func newRouter(s *uiServer, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/tasks", http.StatusFound)
	})
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/ui", func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/tasks", s.handleTasks)
		r.Post("/tasks", s.handleCreateTask)
		r.Post("/tasks/delete", s.handleDeleteTasks)
		r.Post("/tasks/{taskId}", s.handleUpdateTask)

		r.Get("/expenses", s.handleExpenses)
		r.Post("/expenses", s.handleCreateExpense)
		r.Post("/expenses/delete", s.handleDeleteExpenses)
		r.Post("/expenses/{expenseId}", s.handleUpdateExpense)

		r.Get("/employees", s.handleEmployees)
		r.Post("/employees", s.handleCreateEmployee)
		r.Post("/employees/delete", s.handleDeleteEmployees)
		r.Post("/employees/{employeeId}", s.handleUpdateEmployee)

		r.Get("/categories", s.handleCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Post("/categories/delete", s.handleDeleteCategories)

		r.Get("/profile", s.handleProfile)
		r.Post("/profile", s.handleUpdateProfile)
	})

	// Read-only JSON views of the session and the console's rules, for
	// scripts and browser widgets on other origins.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet},
			AllowedHeaders:   []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
		}).Handler)
		r.Use(s.requireAPISession)

		r.Get("/me", s.handleMe)
		r.Get("/policy/task-statuses", handleTaskStatuses)
		r.Get("/policy/expense-fields", s.handleExpenseFields)
	})

	return r
}

type taskStatusesResp struct {
	Status    modal.TaskStatus   `json:"status"`
	Available []modal.TaskStatus `json:"available"`
	Terminal  bool               `json:"terminal"`
}

type expenseFieldsResp struct {
	Role           modal.Role            `json:"role"`
	Status         modal.ExpenseStatus   `json:"status"`
	PaymentStatus  modal.PaymentStatus   `json:"paymentStatus"`
	Editable       []policy.Field        `json:"editable"`
	ShowPayment    bool                  `json:"showPayment"`
	StatusOptions  []modal.ExpenseStatus `json:"statusOptions"`
	PaymentOptions []modal.PaymentStatus `json:"paymentOptions"`
}

func (s *uiServer) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := sessionFrom(r.Context()).User()
	writeJSON(w, u)
}

func handleTaskStatuses(w http.ResponseWriter, r *http.Request) {
	status := modal.TaskStatus(r.URL.Query().Get("status"))
	writeJSON(w, taskStatusesResp{
		Status:    status,
		Available: workflows.AvailableStatuses(status),
		Terminal:  workflows.IsTerminal(status),
	})
}

func (s *uiServer) handleExpenseFields(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := workflows.NewExpenseState(modal.ExpenseStatus(q.Get("status")), modal.PaymentStatus(q.Get("paymentStatus")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	role := sessionFrom(r.Context()).Role()
	e := modal.Expense{Status: state.Status, PaymentStatus: state.Payment}
	resp := expenseFieldsResp{
		Role:           role,
		Status:         state.Status,
		PaymentStatus:  state.Payment,
		Editable:       policy.EditableFields(role, e),
		ShowPayment:    policy.ShowPaymentSelector(role, e),
		StatusOptions:  state.StatusOptions(),
		PaymentOptions: state.PaymentOptions(),
	}
	if resp.Editable == nil {
		resp.Editable = []policy.Field{}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// logRequests writes one access log line per request.
func (s *uiServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		var ev *zerolog.Event
		if ww.Status() >= http.StatusInternalServerError {
			ev = s.logger.Error()
		} else {
			ev = s.logger.Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("took", time.Since(started)).
			Msg("http request")
	})
}
