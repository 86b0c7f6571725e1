package middlewares

import (
	"net/http"
	"strings"

	"PlantKeeper/models"
	"PlantKeeper/repositories"
	"PlantKeeper/utils"

	"github.com/labstack/echo/v4"
)

type TokenValidator interface {
	ValidateToken(token string) (*utils.TokenClaims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
	userRepo       repositories.UserRepositoryInterface
}

func NewAuthMiddleware(validator TokenValidator, userRepo repositories.UserRepositoryInterface) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: validator,
		userRepo:       userRepo,
	}
}

func (am *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token not found")
			}

			claims, err := am.tokenValidator.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := am.userRepo.FindByUsername(c.Request().Context(), claims.Username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	token := c.Request().Header.Get("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}
