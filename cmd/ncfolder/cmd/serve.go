package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/idgen"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/dao"
	"github.com/xxxsen/ncfolder/db"
	"github.com/xxxsen/ncfolder/host"
	"github.com/xxxsen/ncfolder/notify"
	_ "github.com/xxxsen/ncfolder/notify/register"
	"github.com/xxxsen/ncfolder/plugin"
	"github.com/xxxsen/ncfolder/server"
	"go.uber.org/zap"
)

func NewServeCmd(c *Context) *cobra.Command {
	subc := &cobra.Command{
		Use:   "serve",
		Short: "Run the host api with the plugin attached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunServe(cmd.Context(), c)
		},
	}
	return subc
}

func onRunServe(ctx context.Context, c *Context) error {
	logger := logutil.GetLogger(ctx)
	if err := idgen.Init(1); err != nil {
		return fmt.Errorf("init idgen fail, err:%w", err)
	}
	if err := db.InitDB(c.Config.DBFile); err != nil {
		return fmt.Errorf("init db fail, err:%w", err)
	}
	logger.Info("current available notifier", zap.Strings("list", notify.List()))
	logger.Info("current use notifier", zap.String("name", c.Config.Notify.Kind))
	n, err := notify.Create(c.Config.Notify.Kind, c.Config.Notify.Args)
	if err != nil {
		return fmt.Errorf("init notifier fail, err:%w", err)
	}
	plg := plugin.New(
		plugin.WithNotifier(n),
		plugin.WithGatewayFactory(c.NewGateway),
	)
	h := host.New(dao.NewRowDao(db.GetClient()), plg, c.Settings)
	svr, err := server.New(c.Config.Bind, server.WithHost(h), server.WithUsers(c.Config.Users))
	if err != nil {
		return fmt.Errorf("init server fail, err:%w", err)
	}
	logger.Info("init server succ, start it...", zap.String("bind", c.Config.Bind), zap.Strings("actions", plg.Actions()))
	return svr.Run()
}

func init() {
	register(NewServeCmd)
}
