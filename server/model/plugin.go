package model

import "github.com/xxxsen/ncfolder/schema"

type GetSchemaResponse struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Actions     []string         `json:"actions"`
	Workflow    *schema.Workflow `json:"configuration_workflow"`
}

type InsertRowResponse struct {
	RowId uint64 `json:"row_id"`
}

type DeleteRowRequest struct {
	RowId uint64 `json:"row_id" binding:"required"`
}

type DeleteRowResponse struct {
}

type InvokeActionRequest struct {
	Table string `json:"table" binding:"required"`
	RowId uint64 `json:"row_id" binding:"required"`
}

type InvokeActionResponse struct {
	InvokeID  string `json:"invoke_id"`
	Success   bool   `json:"success"`
	Data      string `json:"data"`
	FileCount int    `json:"file_count,omitempty"`
	OverLimit bool   `json:"over_limit,omitempty"`
	Error     string `json:"error,omitempty"`
}
