package kv

import (
	sq "github.com/Masterminds/squirrel"
)

const kvTable = "kv_store"

// kvQueries builds the three statements shared by the SQL backends.
type kvQueries struct {
	b sq.StatementBuilderType
}

func newKVQueries(ph sq.PlaceholderFormat) kvQueries {
	return kvQueries{b: sq.StatementBuilder.PlaceholderFormat(ph)}
}

func (q kvQueries) get(key string) (string, []any, error) {
	return q.b.Select("item_value").
		From(kvTable).
		Where(sq.Eq{"item_key": key}).
		ToSql()
}

// upsert relies on ON CONFLICT, which both PostgreSQL and SQLite accept.
func (q kvQueries) upsert(key, value string) (string, []any, error) {
	return q.b.Insert(kvTable).
		Columns("item_key", "item_value", "updated_at").
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at").
		ToSql()
}

func (q kvQueries) remove(keys []string) (string, []any, error) {
	return q.b.Delete(kvTable).
		Where(sq.Eq{"item_key": keys}).
		ToSql()
}
