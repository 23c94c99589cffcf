package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

func jsonDecoder(r *http.Request) *json.Decoder {
	return json.NewDecoder(r.Body)
}

// decodeJSON reads the body into dst and writes a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := jsonDecoder(r).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// principal returns the authenticated caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingPrincipal)
		return auth.Principal{}, false
	}
	return p, true
}

// pathID validates a UUID path parameter and writes a 400 when it is malformed.
func pathID(w http.ResponseWriter, value, name string) (string, bool) {
	if !validator.IsValidUUID(value) {
		response.BadRequest(w, "Invalid "+name, nil)
		return "", false
	}
	return value, true
}

func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt parses an integer query parameter; absent values yield 0.
func queryInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: key, Message: key + " must be a number"}}
	}
	return n, nil
}

// pageParams parses page and limit.
func pageParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
