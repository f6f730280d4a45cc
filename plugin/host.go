package plugin

import "context"

const (
	EventInsert = "insert"
	EventDelete = "delete"
)

// RowIDKey holds the host generated row id. Hosts reserve it, user columns never use it.
const RowIDKey = "_row_id"

type Row map[string]interface{}

type RowCallbackFunc func(ctx context.Context, row Row) error

// ITable is the part of a host table the plugin subscribes to.
type ITable interface {
	Name() string
	Subscribe(event string, cb RowCallbackFunc)
}
