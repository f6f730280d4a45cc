package hostapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi/proxyutil"
	"github.com/xxxsen/ncfolder/host"
	"github.com/xxxsen/ncfolder/plugin"
	"github.com/xxxsen/ncfolder/server/model"
	"go.uber.org/zap"
)

// RoleQueryFunc maps an authenticated user to its host role.
type RoleQueryFunc func(user string) string

type PluginHandler struct {
	h      *host.Host
	roleFn RoleQueryFunc
}

func NewPluginHandler(h *host.Host, fn RoleQueryFunc) *PluginHandler {
	return &PluginHandler{h: h, roleFn: fn}
}

func (p *PluginHandler) GetSchema(c *gin.Context) {
	plg := p.h.Plugin()
	proxyutil.SuccessJson(c, &model.GetSchemaResponse{
		Name:        plg.Name(),
		Description: plg.Description(),
		Actions:     plg.Actions(),
		Workflow:    plg.ConfigurationWorkflow(),
	})
}

func (p *PluginHandler) InsertRow(c *gin.Context) {
	ctx := c.Request.Context()
	table := c.Param("table")
	row := plugin.Row{}
	if err := c.ShouldBindJSON(&row); err != nil {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("decode row failed, err:%w", err))
		return
	}
	id, err := p.h.Table(table).Insert(ctx, row)
	if errors.Is(err, host.ErrReservedColumn) {
		proxyutil.FailJson(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		proxyutil.FailJson(c, http.StatusInternalServerError, fmt.Errorf("insert row failed, err:%w", err))
		return
	}
	logutil.GetLogger(ctx).Debug("insert row succ", zap.String("table", table), zap.Uint64("row_id", id))
	proxyutil.SuccessJson(c, &model.InsertRowResponse{RowId: id})
}

func (p *PluginHandler) DeleteRow(c *gin.Context) {
	ctx := c.Request.Context()
	table := c.Param("table")
	req := &model.DeleteRowRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("decode request failed, err:%w", err))
		return
	}
	err := p.h.Table(table).Delete(ctx, req.RowId)
	if errors.Is(err, host.ErrRowNotFound) {
		proxyutil.FailJson(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		proxyutil.FailJson(c, http.StatusInternalServerError, err)
		return
	}
	proxyutil.SuccessJson(c, &model.DeleteRowResponse{})
}

func (p *PluginHandler) InvokeAction(c *gin.Context) {
	ctx := c.Request.Context()
	action := c.Param("action")
	req := &model.InvokeActionRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("decode request failed, err:%w", err))
		return
	}
	row, err := p.h.Table(req.Table).Get(ctx, req.RowId)
	if errors.Is(err, host.ErrRowNotFound) {
		proxyutil.FailJson(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		proxyutil.FailJson(c, http.StatusInternalServerError, err)
		return
	}
	var role string
	if u, ok := proxyutil.GetUserInfo(ctx); ok {
		role = p.roleFn(u.Username)
	}
	res, err := p.h.Plugin().Invoke(ctx, action, &plugin.ActionRequest{
		Row:      row,
		Settings: p.h.Settings(),
		Role:     role,
	})
	if errors.Is(err, plugin.ErrActionNotFound) {
		proxyutil.FailJson(c, http.StatusNotFound, err)
		return
	}
	if errors.Is(err, plugin.ErrRoleNotAllowed) {
		proxyutil.FailJson(c, http.StatusForbidden, err)
		return
	}
	if err != nil {
		proxyutil.FailJson(c, http.StatusInternalServerError, err)
		return
	}
	proxyutil.SuccessJson(c, &model.InvokeActionResponse{
		InvokeID:  res.InvokeID,
		Success:   res.Success,
		Data:      string(res.Data),
		FileCount: res.FileCount,
		OverLimit: res.OverLimit,
		Error:     res.Error,
	})
}
