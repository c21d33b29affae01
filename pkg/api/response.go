package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/hanzitree/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status and error body. Server errors are logged
// and reported without their internal detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	resp := ErrorResponse{Detail: errors.UserMessage(err), Code: string(errors.GetCode(err))}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
		if resp.Code == "" {
			resp.Code = string(errors.ErrCodeInternal)
			resp.Detail = "Internal server error"
		}
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
