package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"minimalapi/internal/errors"
	"minimalapi/internal/users"
)

// maxBodyBytes caps JSON and form bodies.
const maxBodyBytes = 1 << 20

// maxMemory is the in-memory budget for multipart forms.
const maxMemory = 1 << 20

// QueryInt binds a required integer query parameter
func QueryInt(r *http.Request, name string) (int, error) {
	raw, ok := lookup(r.URL.Query(), name)
	if !ok {
		return 0, missing("query parameter", name)
	}
	return parseInt("query parameter", name, raw)
}

// QueryString binds a required string query parameter
func QueryString(r *http.Request, name string) (string, error) {
	raw, ok := lookup(r.URL.Query(), name)
	if !ok {
		return "", missing("query parameter", name)
	}
	return raw, nil
}

// HeaderInt binds a required integer header
func HeaderInt(r *http.Request, name string) (int, error) {
	values := r.Header.Values(name)
	if len(values) == 0 {
		return 0, missing("header", name)
	}
	return parseInt("header", name, strings.TrimSpace(values[0]))
}

// FormValues parses an url-encoded or multipart body and returns its fields.
// Query string values are not included.
func FormValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != "application/x-www-form-urlencoded" && mediaType != "multipart/form-data") {
		return nil, errors.New(errors.UnsupportedMediaType,
			"expected a form content type (application/x-www-form-urlencoded or multipart/form-data)", err)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, errors.New(errors.BindingFailed, "malformed form body", err)
	}
	return r.PostForm, nil
}

// FormInt binds a required integer form field
func FormInt(form url.Values, name string) (int, error) {
	raw, ok := lookup(form, name)
	if !ok {
		return 0, missing("form field", name)
	}
	return parseInt("form field", name, raw)
}

// FormString binds a required string form field
func FormString(form url.Values, name string) (string, error) {
	raw, ok := lookup(form, name)
	if !ok {
		return "", missing("form field", name)
	}
	return raw, nil
}

// BindFormUser binds a User model from form fields. Absent fields keep
// their zero value; present fields must parse.
func BindFormUser(form url.Values) (users.User, error) {
	var u users.User
	if raw, ok := lookup(form, "id"); ok {
		id, err := parseInt("form field", "id", raw)
		if err != nil {
			return users.User{}, err
		}
		u.ID = id
	}
	if raw, ok := lookup(form, "name"); ok {
		u.Name = raw
	}
	return u, nil
}

// DecodeJSON binds a JSON request body into T. The body must be a single
// JSON value; unknown fields are ignored.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json")) {
		return v, errors.New(errors.UnsupportedMediaType, "expected an application/json body", err)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return v, errors.New(errors.BindingFailed, "request body is empty", nil)
		}
		return v, errors.New(errors.BindingFailed, "malformed JSON body", err)
	}
	if err := dec.Decode(&struct{}{}); !stderrors.Is(err, io.EOF) {
		return v, errors.New(errors.BindingFailed, "request body must contain a single JSON value", err)
	}
	return v, nil
}

// lookup returns the first value for name, matching names case-insensitively
// when there is no exact match.
func lookup(values url.Values, name string) (string, bool) {
	if vs, ok := values[name]; ok && len(vs) > 0 {
		return vs[0], true
	}
	for k, vs := range values {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}

func parseInt(source, name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.BindingFailed,
			fmt.Sprintf("%s %q must be an integer, got %q", source, name, raw), err).
			WithDetails(map[string]string{"source": source, "name": name})
	}
	return n, nil
}

func missing(source, name string) error {
	return errors.New(errors.BindingFailed,
		fmt.Sprintf("required %s %q was not provided", source, name), nil).
		WithDetails(map[string]string{"source": source, "name": name})
}
