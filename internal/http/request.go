package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// identifier accepts a JSON string or integer. Clients built against the
// original API sometimes send numeric employee ids.
type identifier string

func (id *identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = identifier(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, ok := integerValue(n); ok {
			*id = identifier(strconv.FormatInt(v, 10))
			return nil
		}
	}

	return errIdentifierType
}

var errIdentifierType = errors.New("must be a string or an integer")

// integerValue accepts integral numbers in any JSON spelling (7, 7.0, 1e3).
func integerValue(n json.Number) (int64, bool) {
	if v, err := n.Int64(); err == nil {
		return v, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// decodeError describes why a request body could not be decoded. Field is set
// when a single field carried a value of the wrong JSON type.
type decodeError struct {
	Field  string
	Reason string
}

func (e *decodeError) Error() string {
	if e.Field != "" {
		return e.Field + " " + e.Reason
	}
	return e.Reason
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &decodeError{Reason: "request body is empty"}
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return &decodeError{Field: typeErr.Field, Reason: fmt.Sprintf("must be a %s", jsonKind(typeErr.Type.Kind().String()))}
		case errors.Is(err, errIdentifierType):
			return &decodeError{Field: "employee_id", Reason: err.Error()}
		case errors.As(err, &maxErr):
			return &decodeError{Reason: "request body is too large"}
		default:
			return &decodeError{Reason: "request body must be a valid JSON object"}
		}
	}
	if dec.More() {
		return &decodeError{Reason: "request body must contain a single JSON object"}
	}
	return nil
}

func jsonKind(goKind string) string {
	switch {
	case goKind == "string":
		return "string"
	case goKind == "bool":
		return "boolean"
	case strings.HasPrefix(goKind, "int"), strings.HasPrefix(goKind, "float"):
		return "number"
	default:
		return goKind
	}
}

// writeDecodeError reports a field of the wrong JSON type as invalid input and
// anything else as a malformed body.
func writeDecodeError(ctx context.Context, resp responder, w http.ResponseWriter, err error) {
	var dErr *decodeError
	if errors.As(err, &dErr) && dErr.Field != "" {
		resp.writeError(ctx, w, http.StatusUnprocessableEntity, codeInvalidInput,
			"Invalid input: "+dErr.Error(), map[string]string{dErr.Field: dErr.Field + " " + dErr.Reason})
		return
	}
	detail := msgBadRequestBody
	if errors.As(err, &dErr) {
		detail = upperFirst(dErr.Reason)
	}
	resp.badRequest(ctx, w, detail)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// employeeIDParam returns the decoded {employeeID} path segment. chi matches on
// the raw path, so ids containing reserved characters arrive still escaped.
func employeeIDParam(r *http.Request) string {
	raw := chi.URLParam(r, "employeeID")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
