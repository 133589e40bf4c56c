package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"opsdash/pkg/apierrors"
)

// WriteJSON renders response as JSON. The status line is already on the wire
// when encoding starts, so an encode failure cannot change it; the write is
// best effort.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates client errors into HTTP responses. Upstream statuses
// pass through unchanged so the dashboard surface mirrors the gateway;
// transport failures surface as 502.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(apierrors.CodeInternal)

	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		code = string(apiErr.Code)
		switch {
		case apiErr.Status != 0:
			status = apiErr.Status
		case apiErr.Code == apierrors.CodeTransport:
			status = http.StatusBadGateway
		}
	}

	response := map[string]string{"error": code}
	if msg := apierrors.Reduce(err); msg != "" {
		response["message"] = msg
	}
	WriteJSON(w, status, response)
}
