package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Deps carries everything the route table needs.  Nil middlewares are
// skipped.
type Deps struct {
	JWTSecret string
	Cache     echo.MiddlewareFunc // public GET cache
	Purge     echo.MiddlewareFunc // drops the public cache after admin writes
	RateLimit echo.MiddlewareFunc // public endpoints

	Auth             *handler.AuthHandler
	Reservations     *handler.ReservationHandler
	Rooms            *handler.RoomHandler
	RoomTypeFeatures *handler.RoomTypeFeatureHandler
	Billing          *handler.BillingHandler
	Users            *handler.UserHandler
	Public           *handler.PublicHandler
	Resources        []handler.Mounter
	Ready            echo.HandlerFunc
}

func use(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers the health checks and every /v1 route.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	if d.Ready != nil {
		e.GET("/readyz", d.Ready)
	}
	registerAuth(e, d)
	registerPublic(e, d)
	registerAdmin(e, d)
}

// registerAuth: login and refresh need no session; logout accepts either a
// refresh token or a bearer token.
func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	g.POST("/login", d.Auth.Login)
	g.POST("/refresh", d.Auth.Refresh)
	g.POST("/logout", d.Auth.Logout, middleware.OptionalJWT(d.JWTSecret))

	e.GET("/v1/me", d.Auth.Me, middleware.JWTAuth(d.JWTSecret))
}

// registerPublic exposes the booking form endpoints without authentication.
func registerPublic(e *echo.Echo, d Deps) {
	g := e.Group("/v1/public", use(d.RateLimit)...)
	g.GET("/room-types", d.Public.RoomTypes, use(d.Cache)...)
	g.GET("/rooms/available", d.Public.AvailableRooms, use(d.Cache)...)
	g.POST("/booking/quote", d.Public.Quote)
}

// registerAdmin registers the staff API.  Every route requires ADMIN or
// STAFF; user management requires ADMIN.
func registerAdmin(e *echo.Echo, d Deps) {
	g := e.Group("/v1", use(
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff),
		d.Purge,
	)...)

	r := d.Reservations
	g.GET("/reservations", r.List)
	g.GET("/reservations/:id", r.Get)
	g.POST("/reservations", r.Create)
	g.PUT("/reservations/:id", r.Update)
	g.DELETE("/reservations/:id", r.Delete)
	g.POST("/reservations/:id/change-booker", r.ChangeBooker)
	g.GET("/reservations/:id/status-history", r.StatusHistory)
	g.GET("/reservation-status-history", r.AllStatusHistory)
	g.GET("/reservation-statuses", r.Statuses)

	g.GET("/rooms/available", d.Rooms.Available)
	g.GET("/room-statuses", d.Rooms.Statuses)

	g.GET("/room-types/:id/features", d.RoomTypeFeatures.ByRoomType)
	g.POST("/room-type-features", d.RoomTypeFeatures.Create)
	g.DELETE("/room-type-features/:id", d.RoomTypeFeatures.Delete)

	g.GET("/billings/:id/invoice.pdf", d.Billing.Invoice)

	for _, res := range d.Resources {
		res.Mount(g)
	}

	u := g.Group("/users", middleware.RequireRole(model.RoleAdmin))
	u.GET("", d.Users.List)
	u.GET("/:id", d.Users.Get)
	u.POST("", d.Users.Create)
	u.PUT("/:id", d.Users.Update)
	u.DELETE("/:id", d.Users.Delete)
}
