package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/baechuer/france-explorer/internal/domain"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body holds more than one JSON value")

// DecodeJSON reads a single JSON value from the request body into dst.
// An empty body is not an error: dst keeps its zero value and validation
// reports the missing fields. Bodies over maxBodyBytes are body_too_large.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	switch err := dec.Decode(dst); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return decodeErr(err)
	}

	if dec.More() {
		return domain.ErrInvalidJSON(errTrailingData)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return decodeErr(err)
	}
	return nil
}

func decodeErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.ErrBodyTooLarge(tooLarge.Limit)
	}
	return domain.ErrInvalidJSON(err)
}
