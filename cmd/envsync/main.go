package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/envsync/internal/cli"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/errors"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/storage"
	"github.com/julianstephens/envsync/internal/storage/postgres"
	"github.com/julianstephens/envsync/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path or PostgreSQL connection string. Credentials must NOT be embedded in the connection string; use environment variables or .pgpass instead." type:"string" default:"${default_config}"`
	Debug    bool   `help:"Log debug output to stderr."`
	LogLevel string `help:"Log level (debug, info, warn, error)."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize envsync storage."`
	Run       cli.RunCmd       `cmd:"" help:"Run the automation daemon in the foreground."`
	Watch     cli.WatchCmd     `cmd:"" help:"Run the daemon with the interactive dashboard." default:"1"`
	Status    cli.StatusCmd    `cmd:"" help:"Show the current environment and matching rules."`
	Decide    cli.DecideCmd    `cmd:"" help:"Print the environment decision for a time."`
	Reconcile cli.ReconcileCmd `cmd:"" help:"Run a single automation cycle against the host and exit."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	History   cli.HistoryCmd   `cmd:"" help:"Show recent automation events."`
	Rules     cli.RulesCmd     `cmd:"" help:"List scenery rules in activation order."`
	Slots     cli.SlotsCmd     `cmd:"" help:"List host slots."`
	DebugCmd  cli.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup    struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Snapshot the SQLite database." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List snapshots."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the database from a snapshot."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Settings struct {
		Show cli.SettingsShowCmd `cmd:"" help:"Show all settings." default:"1"`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the weather API key in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the weather API key (masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Delete the weather API key from the OS keyring."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the weather API key."`
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// configDir is where logs and rules.yaml live.
func configDir(config string) (string, error) {
	if storage.IsPostgres(config) {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, constants.AppName), nil
	}
	return filepath.Dir(config), nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("envsync"),
		kong.Description("Keeps a scenery host's environment in step with the sun, the weather and the calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	config := expandHome(CLI.Config)
	command := ctx.Command()

	dir, err := configDir(config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		Level:     CLI.LogLevel,
		ConfigDir: dir,
		Stderr:    strings.HasPrefix(command, "run"),
	}); err != nil {
		errors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	var store storage.Provider
	if storage.IsPostgres(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "       Use a connection string without a password and supply it via PGPASSWORD or .pgpass.\n")
			os.Exit(1)
		}
		store = postgres.New(config)
	} else {
		store = sqlite.NewStore(config)
	}

	appCtx := &cli.Context{
		Store:     store,
		ConfigDir: dir,
	}

	// init handles its own loading
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "keyring") {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
