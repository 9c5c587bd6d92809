package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bitmall/storefront/internal/auth"
)

type signInPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *API) registerAuthRoutes() {
	a.srv.PubPOST("/auth/signup", a.signUp)
	a.srv.PubPOST("/auth/signin", a.signIn)
	a.srv.ApiPOST("/auth/signout", a.signOut)
}

func (a *API) signUp(c echo.Context) error {
	var payload auth.SignUpInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse signup request", err.Error())
	}
	user, err := a.auth.SignUp(c.Request().Context(), payload)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return fail(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered", nil)
		}
		return fail(c, http.StatusBadRequest, "SIGNUP_FAILED", err.Error(), nil)
	}
	token, err := a.auth.IssueToken(user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_FAILED", "Failed to issue session token", nil)
	}
	return ok(c, map[string]interface{}{"token": token, "user": user})
}

func (a *API) signIn(c echo.Context) error {
	var payload signInPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse signin request", err.Error())
	}
	token, user, err := a.auth.SignIn(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	return ok(c, map[string]interface{}{"token": token, "user": user})
}

// signOut exists for client parity; tokens are stateless and simply
// discarded by the caller.
func (a *API) signOut(c echo.Context) error {
	return ok(c, map[string]interface{}{"signed_out": true})
}
