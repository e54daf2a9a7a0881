package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// addFlash queues msg for the browser's next page render. Store failures are
// logged and otherwise ignored.
func addFlash(r *http.Request, store flash.Store, logg *logger.Logger, msg flash.Message) {
	key := middleware.FlashKeyFromContext(r.Context())
	if store == nil || key == "" {
		return
	}
	if err := store.Add(r.Context(), key, msg); err != nil && logg != nil {
		logg.Error(r.Context(), "flash.add_failed", err)
	}
}

func popFlash(r *http.Request, store flash.Store, logg *logger.Logger) []flash.Message {
	key := middleware.FlashKeyFromContext(r.Context())
	if store == nil || key == "" {
		return nil
	}
	msgs, err := store.Pop(r.Context(), key)
	if err != nil {
		if logg != nil {
			logg.Error(r.Context(), "flash.pop_failed", err)
		}
		return nil
	}
	return msgs
}

// redirectWithError flashes the caller-safe message of err and redirects.
func redirectWithError(w http.ResponseWriter, r *http.Request, store flash.Store, logg *logger.Logger, location string, err error) {
	if logg != nil && !isClientError(err) {
		logg.Error(r.Context(), "request.error", err)
	}
	addFlash(r, store, logg, flash.Error(pkgerrors.PublicMessage(err)))
	responses.Redirect(w, r, location)
}

func redirectWithSuccess(w http.ResponseWriter, r *http.Request, store flash.Store, logg *logger.Logger, location, text string) {
	addFlash(r, store, logg, flash.Success(text))
	responses.Redirect(w, r, location)
}

func isClientError(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	return pkgerrors.MetadataFor(typed.Code()).HTTPStatus < http.StatusInternalServerError
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable"))
}
