package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

const multipartMemory = 1 << 20

// DecodeForm flattens a submission into field -> string. Form encodings keep
// the first value of each field; JSON bodies must be a flat object whose
// scalar values are stringified and whose nulls become "".
func DecodeForm(r *http.Request) (map[string]string, error) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedContentType, err)
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		return decodeJSONForm(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, err
		}
		return flattenValues(r.PostForm), nil
	case "application/x-www-form-urlencoded", "":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return flattenValues(r.PostForm), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

func flattenValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		} else {
			out[key] = ""
		}
	}
	return out
}

func decodeJSONForm(r *http.Request) (map[string]string, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case json.Number:
			out[key] = v.String()
		case bool:
			out[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %q must be a scalar value", key)
		}
	}
	return out, nil
}

// ExtractIDFromPath returns the single path segment following prefix.
func ExtractIDFromPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	remaining := strings.TrimPrefix(path, prefix)
	remaining = strings.TrimSuffix(remaining, "/")
	if remaining == "" || strings.Contains(remaining, "/") {
		return "", false
	}

	return remaining, true
}

// WriteDecodeError maps a DecodeForm failure to 413, 415 or 400.
func WriteDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := TraceIDFromContext(r.Context())

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large", nil, traceID)
	case errors.Is(err, ErrUnsupportedContentType):
		WriteErrorEnvelope(w, http.StatusUnsupportedMediaType, CodeInvalidForm, "unsupported content type", nil, traceID)
	default:
		WriteErrorEnvelope(w, http.StatusBadRequest, CodeInvalidForm, "invalid form body", nil, traceID)
	}
}
