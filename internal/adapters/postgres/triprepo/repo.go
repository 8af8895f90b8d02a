package triprepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/domain/stageflow"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository. A trip is spread
// over four tables: the trips row plus its stops, stage entries and audit
// entries. Plan uniqueness rides on the trip_plans primary key.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreatePlan(ctx context.Context, key domain.PlanKey, trips []domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	key = key.Normalize()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trip_plans (center_id, service_date, shift)
			VALUES ($1, $2, $3)
		`, string(key.Center), dateOf(key.Date), string(key.Shift))
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "trip_plans_pkey" {
				return triprepo.ErrPlanExists
			}
			return err
		}
		for _, t := range trips {
			if err := insertTrip(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) ListByPlanKey(ctx context.Context, key domain.PlanKey) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	key = key.Normalize()

	rows, err := r.pool.Query(ctx, `
		SELECT id FROM trips
		WHERE center_id = $1 AND service_date = $2 AND shift = $3
		ORDER BY seq ASC
	`, string(key.Center), dateOf(key.Date), string(key.Shift))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]domain.TripID, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, domain.TripID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Trip, 0, len(ids))
	for _, id := range ids {
		t, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}

	row := r.pool.QueryRow(ctx, `
		SELECT
			center_id,
			service_date,
			shift,
			seq,
			shift_start,
			base_lon,
			base_lat,
			planned_start,
			planned_end,
			total_expected_containers,
			total_expected_weight_kg,
			total_loaded_containers,
			total_loaded_weight_kg,
			created_at,
			updated_at
		FROM trips
		WHERE id = $1
	`, string(id))

	var (
		center      string
		serviceDate pgtype.Date
		shift       string
		t           domain.Trip
	)
	if err := row.Scan(
		&center,
		&serviceDate,
		&shift,
		&t.Seq,
		&t.ShiftStart,
		&t.Base.Lon,
		&t.Base.Lat,
		&t.PlannedStart,
		&t.PlannedEnd,
		&t.TotalExpectedContainers,
		&t.TotalExpectedWeightKg,
		&t.TotalLoadedContainers,
		&t.TotalLoadedWeightKg,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = id
	t.Key = domain.PlanKey{
		Center: domain.CenterID(center),
		Date:   dateToUTC(serviceDate),
		Shift:  domain.Shift(shift),
	}
	t.ShiftStart = t.ShiftStart.UTC()
	t.PlannedStart = t.PlannedStart.UTC()
	t.PlannedEnd = t.PlannedEnd.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()

	var err error
	if t.Stops, err = loadStops(ctx, r.pool, id); err != nil {
		return domain.Trip{}, err
	}
	if t.StageLog, err = loadStageLog(ctx, r.pool, id); err != nil {
		return domain.Trip{}, err
	}
	if t.Audit, err = loadAudit(ctx, r.pool, id); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) Save(ctx context.Context, t domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			UPDATE trips
			SET shift_start = $2,
			    base_lon = $3,
			    base_lat = $4,
			    planned_start = $5,
			    planned_end = $6,
			    total_expected_containers = $7,
			    total_expected_weight_kg = $8,
			    total_loaded_containers = $9,
			    total_loaded_weight_kg = $10,
			    updated_at = $11
			WHERE id = $1
		`,
			string(t.ID),
			t.ShiftStart.UTC(),
			t.Base.Lon,
			t.Base.Lat,
			t.PlannedStart.UTC(),
			t.PlannedEnd.UTC(),
			t.TotalExpectedContainers,
			t.TotalExpectedWeightKg,
			t.TotalLoadedContainers,
			t.TotalLoadedWeightKg,
			t.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return triprepo.ErrNotFound
		}

		// Children are rewritten wholesale; the sets are small and this keeps
		// replace semantics exact.
		for _, table := range []string{"trip_stops", "trip_stage_entries", "trip_audit_entries"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE trip_id = $1`, string(t.ID)); err != nil {
				return err
			}
		}
		return insertTripChildren(ctx, tx, t)
	})
}

// --- helpers ---

func insertTrip(ctx context.Context, tx pgx.Tx, t domain.Trip) error {
	key := t.Key.Normalize()
	_, err := tx.Exec(ctx, `
		INSERT INTO trips (
			id,
			center_id,
			service_date,
			shift,
			seq,
			shift_start,
			base_lon,
			base_lat,
			planned_start,
			planned_end,
			total_expected_containers,
			total_expected_weight_kg,
			total_loaded_containers,
			total_loaded_weight_kg,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		string(t.ID),
		string(key.Center),
		dateOf(key.Date),
		string(key.Shift),
		t.Seq,
		t.ShiftStart.UTC(),
		t.Base.Lon,
		t.Base.Lat,
		t.PlannedStart.UTC(),
		t.PlannedEnd.UTC(),
		t.TotalExpectedContainers,
		t.TotalExpectedWeightKg,
		t.TotalLoadedContainers,
		t.TotalLoadedWeightKg,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	return insertTripChildren(ctx, tx, t)
}

func insertTripChildren(ctx context.Context, tx pgx.Tx, t domain.Trip) error {
	for _, s := range t.Stops {
		orderIDs := make([]string, len(s.OrderIDs))
		for i, oid := range s.OrderIDs {
			orderIDs[i] = string(oid)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO trip_stops (
				trip_id,
				seq,
				location_label,
				location_lon,
				location_lat,
				farmer_id,
				farmer_name,
				farm_name,
				order_ids,
				expected_containers,
				expected_weight_kg,
				planned_arrival,
				status,
				loaded_containers,
				loaded_weight_kg
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`,
			string(t.ID),
			s.Seq,
			s.Location.Label,
			s.Location.Lon,
			s.Location.Lat,
			string(s.FarmerID),
			s.FarmerName,
			s.FarmName,
			orderIDs,
			s.ExpectedContainers,
			s.ExpectedWeightKg,
			s.PlannedArrival.UTC(),
			string(s.Status),
			s.LoadedContainers,
			s.LoadedWeightKg,
		)
		if err != nil {
			return err
		}
	}

	for i, e := range t.StageLog.Entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO trip_stage_entries (trip_id, idx, stage, entered_at, actor, note, is_current)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, string(t.ID), i, string(e.Stage), e.EnteredAt.UTC(), e.Actor, e.Note, e.Current)
		if err != nil {
			return err
		}
	}

	for i, e := range t.Audit {
		_, err := tx.Exec(ctx, `
			INSERT INTO trip_audit_entries (trip_id, idx, at, actor, event, note)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, string(t.ID), i, e.At.UTC(), e.Actor, e.Event, e.Note)
		if err != nil {
			return err
		}
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadStops(ctx context.Context, q querier, id domain.TripID) ([]domain.TripStop, error) {
	rows, err := q.Query(ctx, `
		SELECT
			seq,
			location_label,
			location_lon,
			location_lat,
			farmer_id,
			farmer_name,
			farm_name,
			order_ids,
			expected_containers,
			expected_weight_kg,
			planned_arrival,
			status,
			loaded_containers,
			loaded_weight_kg
		FROM trip_stops
		WHERE trip_id = $1
		ORDER BY seq ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TripStop, 0)
	for rows.Next() {
		var (
			s        domain.TripStop
			farmerID string
			orderIDs []string
			status   string
		)
		if err := rows.Scan(
			&s.Seq,
			&s.Location.Label,
			&s.Location.Lon,
			&s.Location.Lat,
			&farmerID,
			&s.FarmerName,
			&s.FarmName,
			&orderIDs,
			&s.ExpectedContainers,
			&s.ExpectedWeightKg,
			&s.PlannedArrival,
			&status,
			&s.LoadedContainers,
			&s.LoadedWeightKg,
		); err != nil {
			return nil, err
		}
		s.FarmerID = domain.FarmerID(farmerID)
		s.Status = domain.StopStatus(status)
		s.PlannedArrival = s.PlannedArrival.UTC()
		s.OrderIDs = make([]domain.OrderID, len(orderIDs))
		for i, oid := range orderIDs {
			s.OrderIDs[i] = domain.OrderID(oid)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func loadStageLog(ctx context.Context, q querier, id domain.TripID) (stageflow.Track[domain.TripStage], error) {
	rows, err := q.Query(ctx, `
		SELECT stage, entered_at, actor, note, is_current
		FROM trip_stage_entries
		WHERE trip_id = $1
		ORDER BY idx ASC
	`, string(id))
	if err != nil {
		return stageflow.Track[domain.TripStage]{}, err
	}
	defer rows.Close()

	var track stageflow.Track[domain.TripStage]
	for rows.Next() {
		var (
			e     stageflow.Entry[domain.TripStage]
			stage string
		)
		if err := rows.Scan(&stage, &e.EnteredAt, &e.Actor, &e.Note, &e.Current); err != nil {
			return stageflow.Track[domain.TripStage]{}, err
		}
		e.Stage = domain.TripStage(stage)
		e.EnteredAt = e.EnteredAt.UTC()
		track.Entries = append(track.Entries, e)
	}
	return track, rows.Err()
}

func loadAudit(ctx context.Context, q querier, id domain.TripID) ([]domain.AuditEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT at, actor, event, note
		FROM trip_audit_entries
		WHERE trip_id = $1
		ORDER BY idx ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.At, &e.Actor, &e.Event, &e.Note); err != nil {
			return nil, err
		}
		e.At = e.At.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func dateOf(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func dateToUTC(d pgtype.Date) time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}
