package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/DFCPagro/DFCP-sub005/internal/app/loading"
	"github.com/DFCPagro/DFCP-sub005/internal/app/planner"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeServiceError maps application-layer errors onto the wire envelope.
// Anything without an app error type is a 500; the detail stays in the log,
// not the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if pe := (*planner.Error)(nil); errors.As(err, &pe) {
		writeError(w, r, pe.Status, pe.Code, pe.Message, pe.Details)
		return
	}
	if le := (*loading.Error)(nil); errors.As(err, &le) {
		writeError(w, r, le.Status, le.Code, le.Message, le.Details)
		return
	}
	log.Printf("httpapi: internal error method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
