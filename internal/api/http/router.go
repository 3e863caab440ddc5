package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/http/handlers"
	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/authz"
	"github.com/spec-kit/aftersales-service/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Requests      *handlers.RequestsHandler
	Notifications *handlers.NotificationsHandler
	Users         *handlers.UsersHandler
	Directory     *handlers.DirectoryHandler
	TokenManager  *auth.TokenManager
	UserRepo      repository.UserRepository
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/auth/login", cfg.Auth.Login)

	authenticated := api.Group("", auth.Middleware(cfg.TokenManager, cfg.UserRepo))
	authenticated.Get("/auth/me", cfg.Auth.Me)
	authenticated.Post("/auth/password/change", cfg.Auth.ChangePassword)

	requests := authenticated.Group("/requests")
	requests.Post("", auth.RequireAction(authz.ActionCreateRequest), cfg.Requests.Create)
	requests.Get("", cfg.Requests.List)
	requests.Get("/:id", cfg.Requests.Get)
	requests.Put("/:id/status", cfg.Requests.UpdateStatus)
	requests.Put("/:id/assign", auth.RequireAction(authz.ActionAssignTechnician), cfg.Requests.Assign)
	requests.Post("/:id/costs", auth.RequireAction(authz.ActionAddCost), cfg.Requests.AddCost)
	requests.Put("/:id/close", auth.RequireAction(authz.ActionCloseRequest), cfg.Requests.Close)

	notifications := authenticated.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Put("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)

	users := authenticated.Group("/users")
	users.Post("", auth.RequireAction(authz.ActionManageUsers), cfg.Users.Create)
	users.Get("", auth.RequireAction(authz.ActionManageUsers), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", auth.RequireAction(authz.ActionManageUsers), cfg.Users.Update)

	customers := authenticated.Group("/customers")
	customers.Post("", cfg.Directory.CreateCustomer)
	customers.Get("", cfg.Directory.ListCustomers)
	customers.Get("/:id", cfg.Directory.GetCustomer)

	products := authenticated.Group("/products")
	products.Post("", auth.RequireAction(authz.ActionManageDirectory), cfg.Directory.CreateProduct)
	products.Get("", cfg.Directory.ListProducts)

	departments := authenticated.Group("/departments")
	departments.Post("", cfg.Directory.CreateDepartment)
	departments.Get("", cfg.Directory.ListDepartments)

	spareParts := authenticated.Group("/spare-parts")
	spareParts.Post("", auth.RequireAction(authz.ActionManageSpareParts), cfg.Directory.CreateSparePart)
	spareParts.Get("", cfg.Directory.ListSpareParts)
	spareParts.Patch("/:id/stock", auth.RequireAction(authz.ActionManageSpareParts), cfg.Directory.AdjustSparePartStock)

	customStatuses := authenticated.Group("/custom-statuses")
	customStatuses.Post("", auth.RequireAction(authz.ActionManageDirectory), cfg.Directory.CreateCustomStatus)
	customStatuses.Get("", cfg.Directory.ListCustomStatuses)
	customStatuses.Delete("/:id", auth.RequireAction(authz.ActionManageDirectory), cfg.Directory.DeleteCustomStatus)
}
