package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/ncfolder/config"
	"github.com/xxxsen/ncfolder/gateway"
	"github.com/xxxsen/ncfolder/schema"
	"go.uber.org/zap"
)

const (
	defaultConfigFileEnv = "NCFOLDER_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	Config   *config.Config
	Settings *schema.Settings
	Gateway  gateway.IGateway
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

func (c *Context) NewGateway(s *schema.Settings) gateway.IGateway {
	return gateway.New(
		gateway.WithEndpoint(s.Endpoint()),
		gateway.WithTimeout(time.Duration(c.Config.Timeout)*time.Second),
	)
}

func initContext(ctx *Context, cfgs []string) error {
	var c *config.Config
	var err error
	for _, cfg := range cfgs {
		if len(cfg) == 0 {
			continue
		}
		c, err = config.Parse(cfg)
		if err == nil {
			break
		}
	}
	if c == nil {
		return fmt.Errorf("no valid config file found, last err:%w", err)
	}
	ctx.Config = c
	logitem := c.LogInfo
	lg := logger.Init(logitem.File, logitem.Level, int(logitem.FileCount), int(logitem.FileSize), int(logitem.KeepDays), logitem.Console)
	s, err := schema.Decode(c.Plugin)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		lg.Warn("plugin settings incomplete, requests may fail", zap.Error(err))
	}
	lg.Debug("recv plugin settings", zap.Stringer("settings", s))
	ctx.Settings = s
	ctx.Gateway = ctx.NewGateway(s)
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:           "ncfolder",
		Short:         "Nextcloud per-record folder tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, envConfigFile, "./config.json", "/etc/ncfolder/config.json"})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
