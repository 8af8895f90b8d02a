package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// Wire types for the delivery-trips API. There is no generated OpenAPI layer
// for this service; the DTOs are written by hand but follow the same
// conventions (date-only fields as openapi date strings, tri-state optional
// fields as nullable).

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// PlanTripsRequest triggers one planning run for the center in the URL.
type PlanTripsRequest struct {
	Date  openapi_types.Date `json:"date"`
	Shift string             `json:"shift"`
	// Base is the warehouse location trips leave from and return to.
	Base        GeoPoint `json:"base"`
	RequestedBy string   `json:"requestedBy,omitempty"`
}

type PlanTripsResponse struct {
	// Created is true only when this call stored the plan; re-runs and lost
	// races return the stored plan with false.
	Created bool   `json:"created"`
	Trips   []Trip `json:"trips"`
}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

type Trip struct {
	TripId   string             `json:"tripId"`
	CenterId string             `json:"centerId"`
	Date     openapi_types.Date `json:"date"`
	Shift    string             `json:"shift"`
	Seq      int                `json:"seq"`

	ShiftStart   time.Time `json:"shiftStart"`
	Base         GeoPoint  `json:"base"`
	Stage        string    `json:"stage"`
	PlannedStart time.Time `json:"plannedStart"`
	PlannedEnd   time.Time `json:"plannedEnd"`

	Stops []TripStop `json:"stops"`

	TotalExpectedContainers int     `json:"totalExpectedContainers"`
	TotalExpectedWeightKg   float64 `json:"totalExpectedWeightKg"`
	TotalLoadedContainers   int     `json:"totalLoadedContainers"`
	TotalLoadedWeightKg     float64 `json:"totalLoadedWeightKg"`

	Audit []AuditEntry `json:"audit"`
}

type TripStop struct {
	Seq      int      `json:"seq"`
	Label    string   `json:"label"`
	Location GeoPoint `json:"location"`

	FarmerId   string `json:"farmerId"`
	FarmerName string `json:"farmerName"`
	FarmName   string `json:"farmName"`

	OrderIds []string `json:"orderIds"`

	ExpectedContainers int     `json:"expectedContainers"`
	ExpectedWeightKg   float64 `json:"expectedWeightKg"`

	Status         string    `json:"status"`
	PlannedArrival time.Time `json:"plannedArrival"`

	LoadedContainers int     `json:"loadedContainers"`
	LoadedWeightKg   float64 `json:"loadedWeightKg"`
}

type AuditEntry struct {
	At    time.Time `json:"at"`
	Actor string    `json:"actor"`
	Event string    `json:"event"`
	Note  string    `json:"note,omitempty"`
}

// UpdateStopStatusRequest reports a stop-status change from the warehouse or
// the driver app. The loaded fields are tri-state: absent (or null) means
// "record the expected figures", a value means "record exactly this".
type UpdateStopStatusRequest struct {
	Status           string                     `json:"status"`
	LoadedContainers nullable.Nullable[int]     `json:"loadedContainers,omitempty"`
	LoadedWeightKg   nullable.Nullable[float64] `json:"loadedWeightKg,omitempty"`
	Note             string                     `json:"note,omitempty"`
	Actor            string                     `json:"actor,omitempty"`
}

// AdvanceStageRequest moves a whole trip to a new lifecycle stage.
type AdvanceStageRequest struct {
	Stage string `json:"stage"`
	Actor string `json:"actor,omitempty"`
	Note  string `json:"note,omitempty"`
}

type TripResponse struct {
	Trip Trip `json:"trip"`
}

func tripToDTO(t domain.Trip) Trip {
	out := Trip{
		TripId:       string(t.ID),
		CenterId:     string(t.Key.Center),
		Date:         openapi_types.Date{Time: t.Key.Date},
		Shift:        string(t.Key.Shift),
		Seq:          t.Seq,
		ShiftStart:   t.ShiftStart,
		Base:         GeoPoint{Lon: t.Base.Lon, Lat: t.Base.Lat},
		Stage:        string(t.Stage()),
		PlannedStart: t.PlannedStart,
		PlannedEnd:   t.PlannedEnd,
		Stops:        make([]TripStop, 0, len(t.Stops)),
		Audit:        make([]AuditEntry, 0, len(t.Audit)),

		TotalExpectedContainers: t.TotalExpectedContainers,
		TotalExpectedWeightKg:   t.TotalExpectedWeightKg,
		TotalLoadedContainers:   t.TotalLoadedContainers,
		TotalLoadedWeightKg:     t.TotalLoadedWeightKg,
	}
	for _, s := range t.Stops {
		orderIds := make([]string, 0, len(s.OrderIDs))
		for _, id := range s.OrderIDs {
			orderIds = append(orderIds, string(id))
		}
		out.Stops = append(out.Stops, TripStop{
			Seq:                s.Seq,
			Label:              s.Location.Label,
			Location:           GeoPoint{Lon: s.Location.Lon, Lat: s.Location.Lat},
			FarmerId:           string(s.FarmerID),
			FarmerName:         s.FarmerName,
			FarmName:           s.FarmName,
			OrderIds:           orderIds,
			ExpectedContainers: s.ExpectedContainers,
			ExpectedWeightKg:   s.ExpectedWeightKg,
			Status:             string(s.Status),
			PlannedArrival:     s.PlannedArrival,
			LoadedContainers:   s.LoadedContainers,
			LoadedWeightKg:     s.LoadedWeightKg,
		})
	}
	for _, a := range t.Audit {
		out.Audit = append(out.Audit, AuditEntry{At: a.At, Actor: a.Actor, Event: a.Event, Note: a.Note})
	}
	return out
}

func tripsToDTO(ts []domain.Trip) []Trip {
	out := make([]Trip, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripToDTO(t))
	}
	return out
}
