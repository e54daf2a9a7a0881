package validators

import (
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/form/v4"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const maxFormMemory = 1 << 20

var formDecoder = form.NewDecoder()

// DecodeForm binds url-encoded or multipart form values into dest and validates it.
func DecodeForm(r *http.Request, dest any) error {
	if err := parseForm(r); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	if err := formDecoder.Decode(dest, r.Form); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body").WithDetails(map[string]any{"error": err.Error()})
	}
	return validateStruct(dest)
}

// DecodeRequest decodes JSON bodies as JSON and everything else as a form post.
func DecodeRequest(r *http.Request, dest any) error {
	if isJSON(r) {
		return DecodeJSONBody(r, dest)
	}
	return DecodeForm(r, dest)
}

// WantsJSON reports whether the caller is an API client rather than a browser form.
func WantsJSON(r *http.Request) bool {
	if isJSON(r) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
