package userdata

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGRepo stores user data rows in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, email string, serial int, data json.RawMessage) (string, error) {
	const query = `
INSERT INTO user_data (email, serial, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (email, serial) DO UPDATE SET
  data = EXCLUDED.data,
  updated_at = now()
RETURNING (xmax = 0) AS inserted`
	var inserted bool
	if err := r.DB.QueryRowContext(ctx, query, email, serial, []byte(data)).Scan(&inserted); err != nil {
		return "", err
	}
	if inserted {
		return OpInsert, nil
	}
	return OpUpdate, nil
}

func (r *PGRepo) Get(ctx context.Context, email string) ([]Record, error) {
	const query = `
SELECT email, serial, data, updated_at
FROM user_data
WHERE email = $1
ORDER BY serial ASC`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var raw []byte
		if err := rows.Scan(&rec.Email, &rec.Serial, &raw, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Data = json.RawMessage(raw)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

func (r *PGRepo) Delete(ctx context.Context, email string, serial int) error {
	const query = `DELETE FROM user_data WHERE email = $1 AND serial = $2`
	res, err := r.DB.ExecContext(ctx, query, email, serial)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
