package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "adlens/internal/errors"
	"adlens/internal/model"
)

const (
	claimsContextKey = "claims"
	userContextKey   = "currentUser"

	// HeaderLookup reads the bearer token from the Authorization header only.
	HeaderLookup = "header:" + echo.HeaderAuthorization + ":Bearer "
	// HeaderOrQueryLookup also accepts ?token=, for clients that cannot set headers (websockets).
	HeaderOrQueryLookup = HeaderLookup + ",query:token"
)

// UserLoader resolves the user behind a token.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// JWTMiddleware verifies bearer access tokens with jwtService and rejects blacklisted ones.
// A request without a token gets 401, any other failure 403.
func JWTMiddleware(jwtService *JWTService, store TokenStoreInterface, tokenLookup string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: tokenLookup,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateTokenOfType(token, TokenTypeAccess)
			if err != nil {
				return nil, err
			}
			if store != nil {
				revoked, _ := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if revoked {
					return nil, errors.New("token revoked")
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !hasToken(c, tokenLookup) {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "Access token required",
					Code:  "TOKEN_REQUIRED",
				})
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  "INVALID_TOKEN",
			})
		},
	})
}

// LoadUser places the user named by the verified token on the context.
func LoadUser(users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: "Invalid or expired token",
					Code:  "INVALID_TOKEN",
				})
			}
			user, err := users.GetUser(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
						Error: apperrors.ErrUserNotFound.Error(),
						Code:  "USER_NOT_FOUND",
					})
				}
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects users without the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !CurrentUser(c).IsAdmin() {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrAdminRequired)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// ClaimsFrom returns the verified claims of the request, or nil.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// BearerToken returns the raw token of the Authorization header.
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func hasToken(c echo.Context, tokenLookup string) bool {
	if BearerToken(c) != "" {
		return true
	}
	return strings.Contains(tokenLookup, "query:token") && c.QueryParam("token") != ""
}
