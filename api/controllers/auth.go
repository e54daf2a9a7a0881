package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
)

// AuthPage renders the pending flash messages for the login and register forms.
func AuthPage(flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePage(w, map[string]string{"form": r.URL.Path}, popFlash(r, flashes, logg))
	}
}

// AuthLogin authenticates the user. Browsers get the session cookie and a
// redirect to their landing page; API clients get the token payload as well.
func AuthLogin(svc auth.Service, cfg config.SessionConfig, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		api := validators.WantsJSON(r)

		var req auth.LoginRequest
		if err := validators.DecodeRequest(r, &req); err != nil {
			if api {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			addFlash(r, flashes, logg, flash.Error("Please provide both email and password."))
			responses.Redirect(w, r, loginPath)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			if api {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			redirectWithError(w, r, flashes, logg, loginPath, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    resp.AccessToken,
			Path:     "/",
			Expires:  resp.ExpiresAt,
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		if api {
			responses.WriteSuccess(w, resp)
			return
		}
		name := resp.User.FirstName
		if name == "" {
			name = resp.User.Email
		}
		redirectWithSuccess(w, r, flashes, logg, resp.LandingPath, "Welcome back, "+name+"!")
	}
}

// AuthRegister creates a customer account.
func AuthRegister(svc auth.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		api := validators.WantsJSON(r)

		var req auth.RegisterRequest
		if err := validators.DecodeRequest(r, &req); err != nil {
			if api {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			redirectWithError(w, r, flashes, logg, registerPath, err)
			return
		}

		user, err := svc.Register(r.Context(), req)
		if err != nil {
			if api {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			redirectWithError(w, r, flashes, logg, registerPath, err)
			return
		}

		if api {
			responses.WriteSuccessStatus(w, http.StatusCreated, user)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, loginPath, "Registration successful! Please login.")
	}
}

// AuthLogout revokes the session behind the request and clears the cookie.
func AuthLogout(svc auth.Service, cfg config.SessionConfig, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		addFlash(r, flashes, logg, flash.Info("You have been logged out successfully."))
		responses.Redirect(w, r, loginPath)
	}
}
