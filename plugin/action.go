package plugin

import (
	"context"
	"fmt"
	"sort"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/notify"
	"github.com/xxxsen/ncfolder/schema"
	"github.com/xxxsen/ncfolder/webdav"
	"go.uber.org/zap"
)

const (
	ActionDeleteFolder = "delete_folder"
	ActionListFiles    = "list_files"
)

type ActionRequest struct {
	Row      Row
	Settings *schema.Settings
	Role     string
}

type ActionResult struct {
	InvokeID  string
	Success   bool
	Data      []byte
	FileCount int
	OverLimit bool
	Error     string
}

type ActionFunc func(ctx context.Context, p *Plugin, req *ActionRequest) *ActionResult

var actions = make(map[string]ActionFunc)

func registerAction(name string, fn ActionFunc) {
	actions[name] = fn
}

func actionList() []string {
	rs := make([]string, 0, len(actions))
	for name := range actions {
		rs = append(rs, name)
	}
	sort.Strings(rs)
	return rs
}

func failResult(err error) *ActionResult {
	if err == nil {
		err = fmt.Errorf("unknown failure")
	}
	return &ActionResult{Success: false, Data: []byte{}, Error: err.Error()}
}

func deleteFolderAction(ctx context.Context, p *Plugin, req *ActionRequest) *ActionResult {
	name, err := FolderName(req.Row, req.Settings.FolderColumn)
	if err != nil {
		return failResult(err)
	}
	res := p.c.gwFactory(req.Settings).DeleteFolder(ctx, name)
	if !res.OK {
		return failResult(res.Err)
	}
	return &ActionResult{Success: true, Data: []byte{}}
}

func listFilesAction(ctx context.Context, p *Plugin, req *ActionRequest) *ActionResult {
	name, err := FolderName(req.Row, req.Settings.FolderColumn)
	if err != nil {
		return failResult(err)
	}
	res := p.c.gwFactory(req.Settings).ListFolder(ctx, name)
	if !res.OK {
		return failResult(res.Err)
	}
	rs := &ActionResult{Success: true, Data: res.Data}
	if req.Settings.MaxFiles > 0 {
		p.checkFileLimit(ctx, req.Settings, name, rs)
	}
	return rs
}

func (p *Plugin) checkFileLimit(ctx context.Context, s *schema.Settings, name string, rs *ActionResult) {
	ents, err := webdav.Parse(rs.Data)
	if err != nil {
		logutil.GetLogger(ctx).Warn("parse folder listing failed, skip file limit check", zap.String("folder", name), zap.Error(err))
		return
	}
	self, err := s.Endpoint().FolderURL(name)
	if err != nil {
		return
	}
	rs.FileCount = webdav.CountChildren(ents, self)
	rs.OverLimit = rs.FileCount > s.MaxFiles
	if !rs.OverLimit {
		return
	}
	logutil.GetLogger(ctx).Warn("folder exceeds file limit", zap.String("folder", name), zap.Int("file_count", rs.FileCount), zap.Int("max_files", s.MaxFiles))
	if s.EnableNotifications {
		p.notify(ctx, &notify.Message{
			Key:  "over_limit:" + name,
			Text: fmt.Sprintf("Folder %s holds %d files, limit is %d", name, rs.FileCount, s.MaxFiles),
		})
	}
}

func init() {
	registerAction(ActionDeleteFolder, deleteFolderAction)
	registerAction(ActionListFiles, listFilesAction)
}
