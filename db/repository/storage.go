package repository

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"
)

type storageRow struct {
	Key   string          `db:"key"`
	Value json.RawMessage `db:"value"`
}

func (dbr *DBRepository) GetEntries(ctx context.Context, keys []string) (entries map[string]json.RawMessage, err error) {

	query := `
		select
			se."key",
			se."value"
		from storage_entries se
		where se."key" = any($1);
	`

	var rows []storageRow
	err = dbr.db.SelectContext(ctx, &rows, query, pq.StringArray(keys))
	if err != nil {
		return nil, err
	}

	entries = make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		entries[row.Key] = row.Value
	}

	return
}

func (dbr *DBRepository) UpsertEntry(ctx context.Context, key string, value json.RawMessage) (err error) {

	query := `
		insert into storage_entries ("key", "value")
			values ($1, $2)
		on conflict ("key")
			do update
			set ("value", updated_at) = ($2, now());
	`

	res, err := dbr.db.ExecContext(ctx, query, key, []byte(value))
	if err != nil {
		return err
	}

	_, err = res.RowsAffected()
	if err != nil {
		return err
	}

	return
}
