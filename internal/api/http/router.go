package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	References     *handlers.ReferencesHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	Categories     *handlers.CategoriesHandler
	KB             *handlers.KBHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every protected route is gated on a
// permission, never on a role name.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	// Reference lists precede the :id routes so fiber matches them first.
	tickets.Get("/statuses", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.References.ListStatuses)
	tickets.Get("/priorities", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.References.ListPriorities)
	tickets.Get("/service-levels", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.References.ListServiceLevels)
	tickets.Post("/", auth.RequirePermission(domain.PermTicketsCreate), cfg.Tickets.CreateTicket)
	tickets.Get("/", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.Tickets.ListTickets)
	tickets.Get("/mine", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.Tickets.ListMyTickets)
	tickets.Get("/:id", auth.RequirePermission(domain.PermTicketsReadAll, domain.PermTicketsReadOwn), cfg.Tickets.GetTicket)
	tickets.Patch("/:id", auth.RequirePermission(domain.PermTicketsUpdate), cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/comments", auth.RequirePermission(domain.PermCommentsAdd), cfg.Tickets.AddComment)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/agents", auth.RequirePermission(domain.PermTicketsAssign, domain.PermUsersRead), cfg.Users.ListAgents)
	users.Get("/", auth.RequirePermission(domain.PermUsersRead), cfg.Users.ListUsers)
	users.Post("/", auth.RequirePermission(domain.PermUsersCreate), cfg.Users.CreateUser)
	users.Patch("/:id", auth.RequirePermission(domain.PermUsersUpdate), cfg.Users.UpdateUser)

	roles := app.Group("/roles", cfg.AuthMiddleware.Handle)
	roles.Get("/", auth.RequirePermission(domain.PermRolesRead), cfg.Roles.ListRoles)
	roles.Post("/", auth.RequirePermission(domain.PermRolesCreate), cfg.Roles.CreateRole)
	roles.Put("/:id", auth.RequirePermission(domain.PermRolesUpdate), cfg.Roles.UpdateRole)
	roles.Put("/:id/permissions", auth.RequirePermission(domain.PermRolesUpdate), cfg.Roles.ReplaceRolePermissions)
	roles.Patch("/:id/active", auth.RequirePermission(domain.PermRolesUpdate), cfg.Roles.SetRoleActive)
	roles.Delete("/:id", auth.RequirePermission(domain.PermRolesDelete), cfg.Roles.DeleteRole)

	app.Get("/permissions", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermPermsRead), cfg.Roles.ListPermissions)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("/", auth.RequirePermission(domain.PermCatsRead), cfg.Categories.ListCategories)
	categories.Post("/", auth.RequirePermission(domain.PermCatsCreate), cfg.Categories.CreateCategory)
	categories.Get("/:id", auth.RequirePermission(domain.PermCatsRead), cfg.Categories.GetCategory)
	categories.Put("/:id", auth.RequirePermission(domain.PermCatsUpdate), cfg.Categories.UpdateCategory)
	categories.Delete("/:id", auth.RequirePermission(domain.PermCatsDelete), cfg.Categories.DeleteCategory)

	kb := app.Group("/kb/articles", cfg.AuthMiddleware.Handle)
	kb.Get("/", auth.RequirePermission(domain.PermKBRead), cfg.KB.ListArticles)
	kb.Get("/:id", auth.RequirePermission(domain.PermKBRead), cfg.KB.GetArticle)
	kb.Post("/", auth.RequirePermission(domain.PermKBCreate), cfg.KB.CreateArticle)
	kb.Delete("/:id", auth.RequirePermission(domain.PermKBDelete), cfg.KB.DeleteArticle)
}
