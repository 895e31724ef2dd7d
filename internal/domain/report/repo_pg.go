package report

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const reportCols = `id, patient_name, file_path, diet_type, age, extracted, plan,
	plan_source, raw_text_preview, created_at`

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	var extracted, plan []byte
	err := row.Scan(&r.ID, &r.PatientName, &r.FilePath, &r.DietType, &r.Age,
		&extracted, &plan, &r.PlanSource, &r.RawTextPreview, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extracted, &r.Extracted); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(plan, &r.Plan); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()

	extracted, err := json.Marshal(rep.Extracted)
	if err != nil {
		return err
	}
	plan, err := json.Marshal(rep.Plan)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, `
		INSERT INTO report (id, patient_name, file_path, diet_type, age, extracted, plan,
			plan_source, raw_text_preview)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		rep.ID, rep.PatientName, rep.FilePath, rep.DietType, rep.Age, extracted, plan,
		rep.PlanSource, rep.RawTextPreview).Scan(&rep.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scanReport(r.pool.QueryRow(ctx, `SELECT `+reportCols+` FROM report WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Report, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM report`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+reportCols+` FROM report ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}
