package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"verva-api/identity"
)

func signUp(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		session, err := d.Provider.SignUp(c.Request().Context(), req.Email, req.Password, req.Name)
		if err != nil {
			return authFailure(c, d, err)
		}
		return establishSession(c, d, session)
	}
}

func signIn(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		session, err := d.Provider.SignIn(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return authFailure(c, d, err)
		}
		return establishSession(c, d, session)
	}
}

func signInWithGoogle(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req oauthRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		session, err := d.Provider.SignInWithGoogle(c.Request().Context(), req.Code)
		if err != nil {
			return authFailure(c, d, err)
		}
		return establishSession(c, d, session)
	}
}

// signOut revokes the caller's token so subsequent requests carrying it are
// rejected, then clears the session sink.
func signOut(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerTokenFromHeader(c.Request().Header)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if d.Revocations != nil {
			if err := d.Revocations.Revoke(c.Request().Context(), string(token)); err != nil {
				c.Logger().Error(err)
				return c.String(http.StatusInternalServerError, err.Error())
			}
		}
		if d.Sessions != nil {
			d.Sessions.Set(nil)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func establishSession(c echo.Context, d Deps, session *identity.Session) error {
	if d.Sessions != nil {
		user := session.User
		d.Sessions.Set(&user)
	}
	return c.JSON(http.StatusOK, session)
}

func authFailure(c echo.Context, d Deps, err error) error {
	if d.Logger != nil {
		d.Logger.WithField("reason", err.Error()).Warn("auth.rejected")
	}
	return c.JSON(statusForAuthError(err), authErrorResponse{Error: identity.Label(err)})
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, identity.ErrInvalidEmail), errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrOAuthCancelled):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}
