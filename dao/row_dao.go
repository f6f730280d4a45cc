package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xxxsen/ncfolder/entity"

	"github.com/didi/gendry/builder"
	"github.com/xxxsen/common/database"
	"github.com/xxxsen/common/database/dbkit"
	"github.com/xxxsen/common/idgen"
)

type ScanRowCallbackFunc func(ctx context.Context, res []*entity.RowItem) (bool, error)

type IRowDao interface {
	CreateRow(ctx context.Context, req *entity.CreateRowRequest) (*entity.CreateRowResponse, error)
	GetRow(ctx context.Context, req *entity.GetRowRequest) (*entity.GetRowResponse, error)
	ScanRow(ctx context.Context, table string, batch int64, cb ScanRowCallbackFunc) error
	DeleteRow(ctx context.Context, req *entity.DeleteRowRequest) (*entity.DeleteRowResponse, error)
}

type rowDaoImpl struct {
	dbc database.IDatabase
}

func NewRowDao(dbc database.IDatabase) IRowDao {
	return &rowDaoImpl{
		dbc: dbc,
	}
}

func (r *rowDaoImpl) table() string {
	return "host_row_tab"
}

func (r *rowDaoImpl) CreateRow(ctx context.Context, req *entity.CreateRowRequest) (*entity.CreateRowResponse, error) {
	raw, err := json.Marshal(req.RowData)
	if err != nil {
		return nil, fmt.Errorf("encode row data failed, err:%w", err)
	}
	rowid := idgen.NextId()
	now := time.Now().UnixMilli()
	data := []map[string]interface{}{
		{
			"row_id":     rowid,
			"table_name": req.TableName,
			"row_data":   string(raw),
			"ctime":      now,
			"mtime":      now,
		},
	}
	sql, args, err := builder.BuildInsert(r.table(), data)
	if err != nil {
		return nil, err
	}
	if _, err := r.dbc.ExecContext(ctx, sql, args...); err != nil {
		return nil, err
	}
	return &entity.CreateRowResponse{
		RowId: rowid,
	}, nil
}

func (r *rowDaoImpl) GetRow(ctx context.Context, req *entity.GetRowRequest) (*entity.GetRowResponse, error) {
	where := map[string]interface{}{
		"table_name": req.TableName,
		"row_id in":  req.RowIds,
	}
	rs := make([]*entity.RowItem, 0, len(req.RowIds))
	if err := dbkit.SimpleQuery(ctx, r.dbc, r.table(), where, &rs, dbkit.ScanWithTagName("json")); err != nil {
		return nil, err
	}
	return &entity.GetRowResponse{List: rs}, nil
}

// ScanRow pages through one table in row id order until cb stops it or rows run out.
func (r *rowDaoImpl) ScanRow(ctx context.Context, table string, batch int64, cb ScanRowCallbackFunc) error {
	if batch <= 0 {
		return fmt.Errorf("invalid scan batch:%d", batch)
	}
	var after uint64
	for {
		page, err := r.rowPage(ctx, table, after, batch)
		if err != nil {
			return fmt.Errorf("scan rows failed, table:%s, after:%d, err:%w", table, after, err)
		}
		if len(page) == 0 {
			return nil
		}
		goon, err := cb(ctx, page)
		if err != nil {
			return err
		}
		if !goon || int64(len(page)) < batch {
			return nil
		}
		after = page[len(page)-1].RowId
	}
}

func (r *rowDaoImpl) rowPage(ctx context.Context, table string, after uint64, limit int64) ([]*entity.RowItem, error) {
	where := map[string]interface{}{
		"table_name": table,
		"row_id >":   after,
		"_orderby":   "row_id asc",
		"_limit":     []uint{0, uint(limit)},
	}
	page := make([]*entity.RowItem, 0, limit)
	if err := dbkit.SimpleQuery(ctx, r.dbc, r.table(), where, &page, dbkit.ScanWithTagName("json")); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *rowDaoImpl) DeleteRow(ctx context.Context, req *entity.DeleteRowRequest) (*entity.DeleteRowResponse, error) {
	where := map[string]interface{}{
		"table_name": req.TableName,
		"row_id in":  req.RowIds,
	}
	sql, args, err := builder.BuildDelete(r.table(), where)
	if err != nil {
		return nil, err
	}
	if _, err := r.dbc.ExecContext(ctx, sql, args...); err != nil {
		return nil, err
	}
	return &entity.DeleteRowResponse{}, nil
}
