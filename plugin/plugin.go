package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/notify"
	"github.com/xxxsen/ncfolder/schema"
	"go.uber.org/zap"
)

const (
	Name        = "nextcloud_file_manager"
	Description = "Manage one Nextcloud folder per table row."
)

var (
	ErrActionNotFound  = errors.New("action not found")
	ErrRoleNotAllowed  = errors.New("role not allowed")
	ErrNoFolderValue   = errors.New("no folder value in row")
	ErrMissingSettings = errors.New("missing plugin settings")
)

type Plugin struct {
	c *config
}

func New(opts ...Option) *Plugin {
	return &Plugin{c: applyOpts(opts...)}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) Description() string {
	return Description
}

func (p *Plugin) ConfigurationWorkflow() *schema.Workflow {
	return schema.ConfigurationWorkflow()
}

// OnTableCreate creates a folder for every row inserted into table.
// Failures end in the log, the host never sees them.
func (p *Plugin) OnTableCreate(table ITable, s *schema.Settings) {
	if s.FileTags {
		logutil.GetLogger(context.Background()).Warn("file_tags is enabled but not supported, ignore it", zap.String("table", table.Name()))
	}
	table.Subscribe(EventInsert, func(ctx context.Context, row Row) error {
		p.ensureRowFolder(ctx, table.Name(), s, row)
		return nil
	})
}

func (p *Plugin) ensureRowFolder(ctx context.Context, table string, s *schema.Settings, row Row) {
	name, err := FolderName(row, s.FolderColumn)
	if err != nil {
		logutil.GetLogger(ctx).Error("nextcloud create folder failed", zap.String("table", table), zap.String("column", s.FolderColumn), zap.Error(err))
		return
	}
	res := p.c.gwFactory(s).EnsureFolder(ctx, name)
	if !res.OK {
		return
	}
	logutil.GetLogger(ctx).Info("create row folder succ", zap.String("table", table), zap.String("folder", name))
	if s.EnableNotifications {
		p.notify(ctx, &notify.Message{
			Key:  fmt.Sprintf("create:%s:%v:%s", table, row[RowIDKey], name),
			Text: fmt.Sprintf("Folder %s created in Nextcloud for table %s", name, table),
		})
	}
}

func (p *Plugin) notify(ctx context.Context, msg *notify.Message) {
	if err := p.c.notifier.Notify(ctx, msg); err != nil {
		logutil.GetLogger(ctx).Error("send notification failed", zap.String("notifier", p.c.notifier.Name()), zap.String("key", msg.Key), zap.Error(err))
	}
}

func (p *Plugin) Actions() []string {
	return actionList()
}

// Invoke runs a row scoped action. Only unknown actions and rejected roles return an
// error, remote failures are reported through the result.
func (p *Plugin) Invoke(ctx context.Context, action string, req *ActionRequest) (*ActionResult, error) {
	fn, ok := actions[action]
	if !ok {
		return nil, fmt.Errorf("action:%s, err:%w", action, ErrActionNotFound)
	}
	if req.Settings == nil {
		return nil, ErrMissingSettings
	}
	if !req.Settings.IsRoleAllowed(req.Role) {
		return nil, fmt.Errorf("action:%s, role:%s, err:%w", action, req.Role, ErrRoleNotAllowed)
	}
	invokeID := uuid.NewString()
	logger := logutil.GetLogger(ctx).With(zap.String("action", action), zap.String("invoke_id", invokeID))
	res := fn(ctx, p, req)
	res.InvokeID = invokeID
	if len(res.Error) != 0 {
		logger.Error("action finish with error", zap.String("err", res.Error))
		return res, nil
	}
	logger.Debug("action finish", zap.Bool("success", res.Success))
	return res, nil
}

func FolderName(row Row, column string) (string, error) {
	if len(column) == 0 {
		return "", fmt.Errorf("empty folder column, err:%w", ErrNoFolderValue)
	}
	v, ok := row[column]
	if !ok || v == nil {
		return "", fmt.Errorf("column:%s, err:%w", column, ErrNoFolderValue)
	}
	name, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("column:%s, convert value failed, err:%w", column, err)
	}
	return name, nil
}
