package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/dao"
	"github.com/xxxsen/ncfolder/entity"
	"github.com/xxxsen/ncfolder/plugin"
	"go.uber.org/zap"
)

var (
	ErrRowNotFound    = errors.New("row not found")
	ErrReservedColumn = errors.New("reserved column")
)

type ScanRowFunc func(ctx context.Context, rows []plugin.Row) (bool, error)

// Table stores rows and raises lifecycle events to its subscribers.
type Table struct {
	name string
	dao  dao.IRowDao

	mu   sync.RWMutex
	subs map[string][]plugin.RowCallbackFunc
}

func NewTable(name string, d dao.IRowDao) *Table {
	return &Table{
		name: name,
		dao:  d,
		subs: make(map[string][]plugin.RowCallbackFunc),
	}
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Subscribe(event string, cb plugin.RowCallbackFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[event] = append(t.subs[event], cb)
}

func (t *Table) dispatch(ctx context.Context, event string, row plugin.Row) {
	t.mu.RLock()
	cbs := t.subs[event]
	t.mu.RUnlock()
	for _, cb := range cbs {
		if err := cb(ctx, row); err != nil {
			logutil.GetLogger(ctx).Error("row event callback failed", zap.String("table", t.name), zap.String("event", event), zap.Error(err))
		}
	}
}

func toRow(item *entity.RowItem) (plugin.Row, error) {
	data, err := item.DecodeData()
	if err != nil {
		return nil, err
	}
	row := plugin.Row(data)
	row[plugin.RowIDKey] = item.RowId
	return row, nil
}

// Insert persists row and dispatches the insert event once the row is stored.
func (t *Table) Insert(ctx context.Context, row plugin.Row) (uint64, error) {
	if _, ok := row[plugin.RowIDKey]; ok {
		return 0, fmt.Errorf("table:%s, column:%s, err:%w", t.name, plugin.RowIDKey, ErrReservedColumn)
	}
	rsp, err := t.dao.CreateRow(ctx, &entity.CreateRowRequest{
		TableName: t.name,
		RowData:   row,
	})
	if err != nil {
		return 0, fmt.Errorf("create row failed, table:%s, err:%w", t.name, err)
	}
	stored := make(plugin.Row, len(row)+1)
	for k, v := range row {
		stored[k] = v
	}
	stored[plugin.RowIDKey] = rsp.RowId
	t.dispatch(ctx, plugin.EventInsert, stored)
	return rsp.RowId, nil
}

func (t *Table) Get(ctx context.Context, id uint64) (plugin.Row, error) {
	rsp, err := t.dao.GetRow(ctx, &entity.GetRowRequest{
		TableName: t.name,
		RowIds:    []uint64{id},
	})
	if err != nil {
		return nil, fmt.Errorf("get row failed, table:%s, id:%d, err:%w", t.name, id, err)
	}
	if len(rsp.List) == 0 {
		return nil, fmt.Errorf("table:%s, id:%d, err:%w", t.name, id, ErrRowNotFound)
	}
	return toRow(rsp.List[0])
}

// Delete removes the row and dispatches the delete event with its last content.
func (t *Table) Delete(ctx context.Context, id uint64) error {
	row, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := t.dao.DeleteRow(ctx, &entity.DeleteRowRequest{
		TableName: t.name,
		RowIds:    []uint64{id},
	}); err != nil {
		return fmt.Errorf("delete row failed, table:%s, id:%d, err:%w", t.name, id, err)
	}
	t.dispatch(ctx, plugin.EventDelete, row)
	return nil
}

func (t *Table) Scan(ctx context.Context, batch int64, cb ScanRowFunc) error {
	return t.dao.ScanRow(ctx, t.name, batch, func(ctx context.Context, res []*entity.RowItem) (bool, error) {
		rows := make([]plugin.Row, 0, len(res))
		for _, item := range res {
			row, err := toRow(item)
			if err != nil {
				return false, err
			}
			rows = append(rows, row)
		}
		return cb(ctx, rows)
	})
}
