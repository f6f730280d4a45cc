package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/ncfolder/webdav"
	"go.uber.org/zap"
)

type folderArgs struct {
	folder string
	raw    bool
}

func (a *folderArgs) bind(subc *cobra.Command) {
	subc.PersistentFlags().StringVarP(&a.folder, "folder", "f", "", "remote folder name")
}

func NewEnsureCmd(c *Context) *cobra.Command {
	args := &folderArgs{}
	subc := &cobra.Command{
		Use:   "ensure",
		Short: "Create the remote folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunEnsure(cmd.Context(), c, args)
		},
	}
	args.bind(subc)
	return subc
}

func onRunEnsure(ctx context.Context, c *Context, args *folderArgs) error {
	res := c.Gateway.EnsureFolder(ctx, args.folder)
	if !res.OK {
		return fmt.Errorf("create folder failed, status:%d, err:%w", res.Status, res.Err)
	}
	logutil.GetLogger(ctx).Info("create folder succ", zap.String("folder", args.folder), zap.Int("status", res.Status))
	return nil
}

func NewListCmd(c *Context) *cobra.Command {
	args := &folderArgs{}
	subc := &cobra.Command{
		Use:   "ls",
		Short: "List files of the remote folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunList(cmd.Context(), c, args, cmd.OutOrStdout())
		},
	}
	args.bind(subc)
	subc.PersistentFlags().BoolVar(&args.raw, "raw", false, "print the raw PROPFIND response")
	return subc
}

func onRunList(ctx context.Context, c *Context, args *folderArgs, out io.Writer) error {
	res := c.Gateway.ListFolder(ctx, args.folder)
	if !res.OK {
		return fmt.Errorf("list folder failed, status:%d, err:%w", res.Status, res.Err)
	}
	if args.raw {
		_, err := out.Write(res.Data)
		return err
	}
	ents, err := webdav.Parse(res.Data)
	if err != nil {
		return err
	}
	return writeEntries(out, ents)
}

func writeEntries(out io.Writer, ents []*webdav.Entry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, ent := range ents {
		kind := "file"
		size := humanize.IBytes(uint64(ent.Size))
		if ent.IsDir {
			kind = "dir"
			size = "-"
		}
		mtime := "-"
		if ent.Mtime != 0 {
			mtime = humanize.Time(time.UnixMilli(ent.Mtime))
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, size, mtime, ent.Name)
	}
	return w.Flush()
}

func NewRemoveCmd(c *Context) *cobra.Command {
	args := &folderArgs{}
	subc := &cobra.Command{
		Use:   "rm",
		Short: "Delete the remote folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunRemove(cmd.Context(), c, args)
		},
	}
	args.bind(subc)
	return subc
}

func onRunRemove(ctx context.Context, c *Context, args *folderArgs) error {
	res := c.Gateway.DeleteFolder(ctx, args.folder)
	if !res.OK {
		return fmt.Errorf("delete folder failed, status:%d, err:%w", res.Status, res.Err)
	}
	logutil.GetLogger(ctx).Info("delete folder succ", zap.String("folder", args.folder))
	return nil
}

func init() {
	register(NewEnsureCmd)
	register(NewListCmd)
	register(NewRemoveCmd)
}

