package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/idgen"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/dao"
	"github.com/xxxsen/ncfolder/db"
	"github.com/xxxsen/ncfolder/host"
	"github.com/xxxsen/ncfolder/plugin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBackfillBatch = 128
)

type backfillArgs struct {
	table  string
	thread int
}

func NewBackfillCmd(c *Context) *cobra.Command {
	args := &backfillArgs{}
	subc := &cobra.Command{
		Use:   "backfill",
		Short: "Create folders for rows stored before the plugin was enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunBackfill(cmd.Context(), c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.table, "table", "t", "", "host table name")
	subc.PersistentFlags().IntVar(&args.thread, "thread", 4, "concurrent requests")
	return subc
}

func onRunBackfill(ctx context.Context, c *Context, args *backfillArgs) error {
	if len(args.table) == 0 {
		return fmt.Errorf("no table found")
	}
	if args.thread <= 0 {
		args.thread = 1
	}
	if err := idgen.Init(1); err != nil {
		return fmt.Errorf("init idgen fail, err:%w", err)
	}
	if err := db.InitDB(c.Config.DBFile); err != nil {
		return fmt.Errorf("init db fail, err:%w", err)
	}
	tab := host.NewTable(args.table, dao.NewRowDao(db.GetClient()))
	start := time.Now()
	st, err := backfillTable(ctx, c, tab, args.thread)
	if err != nil {
		return fmt.Errorf("scan table failed, table:%s, err:%w", args.table, err)
	}
	logutil.GetLogger(ctx).Info("backfill finish",
		zap.String("table", args.table),
		zap.Int64("total", st.total),
		zap.Int64("created", st.created),
		zap.Int64("not_created", st.failed),
		zap.Duration("cost", time.Since(start)),
	)
	return nil
}

type backfillStat struct {
	total   int64
	created int64
	failed  int64
}

func backfillTable(ctx context.Context, c *Context, tab *host.Table, thread int) (*backfillStat, error) {
	st := &backfillStat{}
	eg, subctx := errgroup.WithContext(ctx)
	eg.SetLimit(thread)
	err := tab.Scan(ctx, defaultBackfillBatch, func(_ context.Context, rows []plugin.Row) (bool, error) {
		for _, row := range rows {
			st.total++
			eg.Go(func() error {
				name, err := plugin.FolderName(row, c.Settings.FolderColumn)
				if err != nil {
					atomic.AddInt64(&st.failed, 1)
					logutil.GetLogger(subctx).Error("skip row without folder value", zap.Any("row_id", row[plugin.RowIDKey]), zap.Error(err))
					return nil
				}
				if res := c.Gateway.EnsureFolder(subctx, name); res.OK {
					atomic.AddInt64(&st.created, 1)
					return nil
				}
				atomic.AddInt64(&st.failed, 1)
				return nil
			})
		}
		return true, nil
	})
	if werr := eg.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func init() {
	register(NewBackfillCmd)
}
