package yatriq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// QueryError is a malformed request parameter or body.
type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

func parseNonNegativeInt(name, s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, &QueryError{Msg: fmt.Sprintf("%s must be a non-negative integer", name)}
	}
	return v, nil
}

func param(q url.Values, name string) string {
	return strings.TrimSpace(q.Get(name))
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &QueryError{Msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}
