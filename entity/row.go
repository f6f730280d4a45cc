package entity

import (
	"encoding/json"
	"fmt"
)

type CreateRowRequest struct {
	TableName string
	RowData   map[string]interface{}
}

type CreateRowResponse struct {
	RowId uint64
}

type GetRowRequest struct {
	TableName string
	RowIds    []uint64
}

type GetRowResponse struct {
	List []*RowItem
}

type DeleteRowRequest struct {
	TableName string
	RowIds    []uint64
}

type DeleteRowResponse struct {
}

type RowItem struct {
	Id        uint64 `json:"id"`
	RowId     uint64 `json:"row_id"`
	TableName string `json:"table_name"`
	RowData   string `json:"row_data"`
	Ctime     int64  `json:"ctime"`
	Mtime     int64  `json:"mtime"`
}

func (r *RowItem) DecodeData() (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	if len(r.RowData) != 0 {
		if err := json.Unmarshal([]byte(r.RowData), &rs); err != nil {
			return nil, fmt.Errorf("decode row data failed, row_id:%d, err:%w", r.RowId, err)
		}
	}
	return rs, nil
}
