package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/api/scheduler"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/options"
	"github.com/civicdesk/complaint-dashboard/session"
)

// App stores the router and the services the handlers share, so it can be reused
type App struct {
	Router    *mux.Router
	Handler   http.Handler
	Config    config.Config
	Backend   gateway.Authenticator
	Registry  *session.Registry
	Guard     *api.Guard
	Options   *options.Lookup
	Scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Registry == nil {
		a.Registry = session.NewRegistry(a.Config.PageSize)
		a.Registry.Location = a.Config.Location()
	}
	if a.Guard == nil {
		a.Guard = api.NewGuard(&a.Config, a.Registry, a.Backend)
	}
	if a.Options == nil {
		a.Options = options.New()
	}

	limiter := api.NewRateLimiter(a.Config.LoginRatePerMinute)
	protected := func(h http.HandlerFunc) http.Handler {
		return a.Guard.Middleware(h)
	}

	auth := Auth{Guard: a.Guard, Backend: a.Backend, Registry: a.Registry}
	c := Complaint{Options: a.Options, Location: a.Config.Location()}
	d := Detail{Options: a.Options, Location: a.Config.Location()}
	u := User{Location: a.Config.Location()}
	o := Option{Options: a.Options}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	if a.Config.RequestTimeout > 0 {
		apiCreate.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))
	}

	apiCreate.Handle("/auth/token", limiter.Limit(protected(a.Guard.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/otp", limiter.Limit(http.HandlerFunc(auth.SendOTPHandler))).Methods("POST")
	apiCreate.Handle("/auth/otp/verify", limiter.Limit(http.HandlerFunc(auth.VerifyOTPHandler))).Methods("POST")
	apiCreate.Handle("/auth/me", protected(auth.MeHandler)).Methods("GET")
	apiCreate.Handle("/auth/logout", protected(a.Guard.RevokeToken)).Methods("DELETE")

	apiCreate.Handle("/complaints", protected(c.ComplaintsHandler)).Methods("GET")
	apiCreate.Handle("/complaints/assigned", protected(c.AssignedComplaintsHandler)).Methods("GET")
	apiCreate.Handle("/complaints/filters", protected(c.StageFiltersHandler)).Methods("PUT")
	apiCreate.Handle("/complaints/filters/apply", protected(c.ApplyFiltersHandler)).Methods("POST")
	apiCreate.Handle("/complaints/filters/reset", protected(c.ResetFiltersHandler)).Methods("POST")
	apiCreate.Handle("/complaints/filters/{key}", protected(c.RemoveFilterHandler)).Methods("DELETE")
	apiCreate.Handle("/complaints/page", protected(c.PageHandler)).Methods("PUT")
	apiCreate.Handle("/complaints/refresh", protected(c.RefreshHandler)).Methods("POST")
	apiCreate.Handle("/complaints/error", protected(c.ClearErrorHandler)).Methods("DELETE")

	apiCreate.Handle("/complaints/{complaint_id}", protected(d.ComplaintByIDHandler)).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}", protected(d.CloseComplaintHandler)).Methods("DELETE")
	apiCreate.Handle("/complaints/{complaint_id}/tab", protected(d.SelectTabHandler)).Methods("PUT")
	apiCreate.Handle("/complaints/{complaint_id}/updates/draft", protected(d.DraftUpdateHandler)).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}/updates", protected(d.AddUpdateHandler)).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}/assign", protected(d.AssignToMeHandler)).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}/delete-request/open", protected(d.OpenDeleteRequestHandler)).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}/delete-request/cancel", protected(d.CancelDeleteRequestHandler)).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}/delete-request", protected(d.DeleteRequestHandler)).Methods("POST")

	apiCreate.Handle("/users", protected(u.UsersHandler)).Methods("GET")
	apiCreate.Handle("/users/error", protected(u.ClearErrorHandler)).Methods("DELETE")
	apiCreate.Handle("/users/{user_id}", protected(u.UserByIDHandler)).Methods("GET")

	apiCreate.Handle("/options/problem-types", protected(o.ProblemTypesHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect the backend client, create a router
// and start the session sweeper
func (a *App) Initialize() error {
	if a.Backend == nil {
		a.Backend = gateway.NewClient(&a.Config)
	}
	a.initializeRoutes()

	a.Scheduler = scheduler.NewScheduler(a.Registry, a.Config.SessionTTL, a.Config.SessionSweepInterval,
		func(ctx context.Context, op *session.Operator) {
			a.Guard.End(ctx, op, nil)
		})
	a.Scheduler.Observe = func(live int) {
		api.ActiveSessions.Set(float64(live))
	}
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	zap.S().Infow("complaint-dashboard is wired to the backend",
		"backend", a.Config.BackendURL,
		"app", a.Config.BackendAppID)
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
	a.Handler = cors.New(cors.Options{
		AllowedOrigins:   a.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", api.RequestIDHeader},
		ExposedHeaders:   []string{api.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(a.Router)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v as is.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}
