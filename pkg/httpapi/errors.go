package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/errorsx"
)

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	Field  string `json:"field,omitempty"`
}

func statusFor(reason errorsx.ReasonCode) int {
	switch reason {
	case errorsx.ReasonValidation:
		return http.StatusBadRequest
	case errorsx.ReasonAuth:
		return http.StatusUnauthorized
	case errorsx.ReasonNotFound:
		return http.StatusNotFound
	case errorsx.ReasonCatalogIntegrity:
		return http.StatusConflict
	case errorsx.ReasonDispatchUnavailable:
		return http.StatusServiceUnavailable
	}
	if reason.External() {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorPayload(err error) (int, errorBody) {
	reason := errorsx.Reason(err)
	body := errorBody{Error: err.Error(), Reason: string(reason)}
	var ve *callrequest.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}
	return statusFor(reason), body
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorPayload(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errorsx.Errorf(errorsx.ReasonValidation, "decode request body: %v", err)
	}
	return nil
}
