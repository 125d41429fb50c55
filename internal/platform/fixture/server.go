package fixture

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/platform/middleware"
)

// devTokenSecret signs fixture-issued tokens. Fixture credentials are
// worthless outside local development by construction.
const devTokenSecret = "careflow-fixture-dev-secret"

// NewServer assembles the fixture API on an echo instance with the
// standard middleware chain.
func NewServer(store *Store, logger zerolog.Logger, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/auth/dev-token", issueDevToken)

	NewHandler(store).RegisterRoutes(e)
	return e
}

// issueDevToken mints a short-lived bearer token so client setups that
// insist on sending credentials have one to send.
func issueDevToken(c echo.Context) error {
	sub := c.QueryParam("sub")
	if sub == "" {
		sub = "dev"
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(12 * time.Hour).Unix(),
		"iss": "careflow-fixture",
	})
	signed, err := token.SignedString([]byte(devTokenSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sign token")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": signed})
}
