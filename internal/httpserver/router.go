package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/sweetlab/sweet_shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	SweetHandler *SweetHTTP
	Auth         *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Sweet Shop Management System API is running",
		})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	sweets := api.Group("/sweets")
	sweets.GET("", d.SweetHandler.List)
	sweets.GET("/search", d.SweetHandler.Search)
	sweets.GET("/:id", d.SweetHandler.Get)

	sweets.POST("", d.SweetHandler.Create, d.Auth.RequireAuth, d.Auth.RequireAdmin)
	sweets.PUT("/:id", d.SweetHandler.Update, d.Auth.RequireAuth, d.Auth.RequireAdmin)
	sweets.DELETE("/:id", d.SweetHandler.Delete, d.Auth.RequireAuth, d.Auth.RequireAdmin)

	sweets.POST("/:id/purchase", d.SweetHandler.Purchase, d.Auth.RequireAuth)
	sweets.POST("/:id/restock", d.SweetHandler.Restock, d.Auth.RequireAuth, d.Auth.RequireAdmin)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}
