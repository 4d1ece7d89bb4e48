package db

import "context"

// getTodoIncludingDeleted ignores the deletion flag.
func (q *Queries) getTodoIncludingDeleted(ctx context.Context, id int64) (*Todo, error) {
	return q.take(q.db.WithContext(ctx), id)
}
