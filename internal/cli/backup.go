package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/envsync/internal/backup"
	"github.com/julianstephens/envsync/internal/storage"
)

func (c *Context) backupManager() (*backup.Manager, error) {
	path := c.Store.GetConfigPath()
	if storage.IsPostgres(path) || path == "postgresql" {
		return nil, errors.New("backups are only supported for SQLite databases; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct {
	JSON bool `help:"Output as JSON."`
}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return err
	}
	if cmd.JSON {
		return printJSON(os.Stdout, list)
	}
	if len(list) == 0 {
		fmt.Printf("No backups in %s\n", mgr.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN\tSIZE\tFILE")
	for _, b := range list {
		fmt.Fprintf(w, "%s (%s)\t%s\t%s\n",
			b.Taken.Format("2006-01-02 15:04:05"), humanize.Time(b.Taken),
			humanize.Bytes(uint64(b.Size)), filepath.Base(b.Path))
	}
	return w.Flush()
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or path; see 'envsync backup list'."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path := cmd.File
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if previous != "" {
		fmt.Printf("Saved the replaced database as %s\n", filepath.Base(previous))
	}
	fmt.Printf("✓ Restored %s\n", filepath.Base(path))
	return nil
}
