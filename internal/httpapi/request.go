package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// maxBodyBytes caps request bodies the same way the teacher's httputil does,
// a defense against unbounded request payloads rather than a domain limit.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes a JSON request body into dst, rejecting unknown
// fields, trailing data, and bodies over maxBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var unmarshalTypeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return kernel.ValidationError("request body is empty")
		case errors.Is(err, io.ErrUnexpectedEOF):
			return kernel.ValidationError("request body is malformed or truncated")
		case errors.As(err, &syntaxErr):
			return kernel.ValidationErrorf("request body contains malformed JSON at byte %d", syntaxErr.Offset)
		case errors.As(err, &unmarshalTypeErr):
			return kernel.ValidationErrorf("request field %q expects a different type", unmarshalTypeErr.Field)
		case err.Error() == "http: request body too large":
			return kernel.ValidationError("request body is too large")
		default:
			return kernel.ValidationErrorf("invalid request body: %v", err)
		}
	}

	if decoder.More() {
		return kernel.ValidationError("request body must contain a single JSON object")
	}

	return nil
}

// QueryInt parses an optional integer query parameter, returning def if the
// parameter is absent or blank.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, kernel.ValidationErrorf("query parameter %q must be an integer", key)
	}
	return v, nil
}
