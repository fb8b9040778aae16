package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/cors"
)

// CORS allows the admin panel and booking form origins to call the API.
// An empty origin list disables cross-origin access.
func CORS(origins []string) echo.MiddlewareFunc {
    c := cors.New(cors.Options{
        AllowedOrigins:   origins,
        AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
        AllowedHeaders:   []string{"Content-Type", "Authorization", echo.HeaderXRequestID},
        ExposedHeaders:   []string{echo.HeaderLocation, echo.HeaderXRequestID, "X-Cache", "Retry-After"},
        AllowCredentials: true,
        MaxAge:           600,
    })
    return echo.WrapMiddleware(c.Handler)
}
