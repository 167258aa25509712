package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/api/handler"
	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/organization"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/project"
	"github.com/orgkit/orgkit/internal/review"
	"github.com/orgkit/orgkit/internal/team"
	"github.com/orgkit/orgkit/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	AuthService   *auth.Service
	Organizations organization.Repository
	Users         user.Repository
	Teams         team.Repository
	Projects      project.Repository
	Advisories    advisory.Repository
	Reviews       review.Repository
	Clock         func() time.Time
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	var (
		orgPolicy      policy.OrganizationPolicy
		userPolicy     policy.UserPolicy
		teamPolicy     policy.TeamPolicy
		projectPolicy  policy.ProjectPolicy
		advisoryPolicy policy.AdvisoryAssignmentPolicy
	)

	orgHandler := handler.NewOrganizationHandler(deps.Organizations)
	userHandler := handler.NewUserHandler(deps.Users, deps.AuthService)
	teamHandler := handler.NewTeamHandler(deps.Teams)
	projectHandler := handler.NewProjectHandler(deps.Projects)
	advisoryHandler := handler.NewAdvisoryAssignmentHandler(deps.Advisories, deps.Clock)
	reviewHandler := handler.NewReviewHandler(deps.Reviews, review.NewFactsLoader(deps.Advisories, deps.Teams))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", orgHandler.List)
			r.Get("/{id}", orgHandler.GetByID)
			r.With(middleware.Authorize(orgPolicy.Create)).Post("/", orgHandler.Create)
			r.With(middleware.Authorize(orgPolicy.Update)).Patch("/{id}", orgHandler.Update)
			r.With(middleware.Authorize(orgPolicy.Delete)).Delete("/{id}", orgHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.GetByID)
			r.With(middleware.Authorize(userPolicy.Create)).Post("/", userHandler.Create)
			r.With(middleware.Authorize(userPolicy.Update)).Patch("/{id}", userHandler.Update)
			r.With(middleware.Authorize(userPolicy.Delete)).Delete("/{id}", userHandler.Delete)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Get("/{id}", teamHandler.GetByID)
			r.With(middleware.Authorize(teamPolicy.Create)).Post("/", teamHandler.Create)
			r.With(middleware.Authorize(teamPolicy.Update)).Patch("/{id}", teamHandler.Update)
			r.With(middleware.Authorize(teamPolicy.Delete)).Delete("/{id}", teamHandler.Delete)
			r.With(middleware.Authorize(teamPolicy.AddMember)).Post("/{id}/members", teamHandler.AddMember)
			r.With(middleware.Authorize(teamPolicy.RemoveMember)).Delete("/{id}/members/{userID}", teamHandler.RemoveMember)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.GetByID)
			r.With(middleware.Authorize(projectPolicy.Create)).Post("/", projectHandler.Create)
			r.With(middleware.Authorize(projectPolicy.Update)).Patch("/{id}", projectHandler.Update)
			r.With(middleware.Authorize(projectPolicy.Delete)).Delete("/{id}", projectHandler.Delete)
			r.With(middleware.Authorize(projectPolicy.AssignTeam)).Post("/{id}/teams", projectHandler.AssignTeam)
			r.With(middleware.Authorize(projectPolicy.RemoveTeam)).Delete("/{id}/teams/{teamID}", projectHandler.RemoveTeam)
		})

		r.Route("/advisory-assignments", func(r chi.Router) {
			r.Get("/", advisoryHandler.List)
			r.Get("/{id}", advisoryHandler.GetByID)
			r.With(middleware.Authorize(advisoryPolicy.Create)).Post("/", advisoryHandler.Create)
			r.With(middleware.Authorize(advisoryPolicy.Update)).Patch("/{id}", advisoryHandler.Update)
			r.With(middleware.Authorize(advisoryPolicy.Delete)).Delete("/{id}", advisoryHandler.Delete)
		})

		// Review authorization is subject-dependent and lives in the handler.
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)
			r.Get("/{id}", reviewHandler.GetByID)
			r.Post("/", reviewHandler.Create)
			r.Patch("/{id}", reviewHandler.Update)
			r.Delete("/{id}", reviewHandler.Delete)
		})
	})

	return r
}
