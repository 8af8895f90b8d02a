package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DFCPagro/DFCP-sub005/internal/app/loading"
	"github.com/DFCPagro/DFCP-sub005/internal/app/planner"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// Server is the HTTP adapter over the planner and loading services. It only
// decodes, delegates and encodes; every rule lives in the app layer.
type Server struct {
	Planner *planner.Service
	Loading *loading.Service
}

func NewServer(plannerSvc *planner.Service, loadingSvc *loading.Service) *Server {
	return &Server{Planner: plannerSvc, Loading: loadingSvc}
}

func (s *Server) PlanTrips(w http.ResponseWriter, r *http.Request) {
	var body PlanTripsRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	res, err := s.Planner.Plan(r.Context(), planner.PlanRequest{
		Center:      domain.CenterID(chi.URLParam(r, "centerID")),
		Date:        body.Date.Time,
		Shift:       domain.Shift(body.Shift),
		Base:        domain.GeoPoint{Lon: body.Base.Lon, Lat: body.Base.Lat},
		RequestedBy: body.RequestedBy,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, PlanTripsResponse{Created: res.Created, Trips: tripsToDTO(res.Trips)})
}

func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := time.Parse(time.DateOnly, q.Get("date"))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid date",
			map[string]any{"date": "must be YYYY-MM-DD"})
		return
	}
	shift, err := domain.ParseShift(q.Get("shift"))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid shift",
			map[string]any{"shift": err.Error()})
		return
	}

	trips, err := s.Planner.ListPlanned(r.Context(), domain.CenterID(chi.URLParam(r, "centerID")), date, shift)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListTripsResponse{Trips: tripsToDTO(trips)})
}

func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := s.Planner.GetTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: tripToDTO(t)})
}

func (s *Server) UpdateStopStatus(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid stop sequence",
			map[string]any{"seq": "must be an integer"})
		return
	}
	var body UpdateStopStatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	in := loading.StopStatusInput{
		Status: domain.StopStatus(body.Status),
		Note:   body.Note,
		Actor:  body.Actor,
	}
	if body.LoadedContainers.IsSpecified() && !body.LoadedContainers.IsNull() {
		if v, err := body.LoadedContainers.Get(); err == nil {
			in.LoadedContainers = &v
		}
	}
	if body.LoadedWeightKg.IsSpecified() && !body.LoadedWeightKg.IsNull() {
		if v, err := body.LoadedWeightKg.Get(); err == nil {
			in.LoadedWeightKg = &v
		}
	}

	t, err := s.Loading.SetStopStatus(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), seq, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: tripToDTO(t)})
}

func (s *Server) AdvanceTripStage(w http.ResponseWriter, r *http.Request) {
	var body AdvanceStageRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	t, err := s.Loading.AdvanceTripStage(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), loading.StageInput{
		Stage: domain.TripStage(body.Stage),
		Actor: body.Actor,
		Note:  body.Note,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: tripToDTO(t)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body is not valid JSON for this endpoint",
			map[string]any{"decode": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
