// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, configuration loading and the version
// subcommand.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/uidcolumn/buildvars"
	"github.com/toeirei/uidcolumn/internal/config"
	"github.com/toeirei/uidcolumn/internal/db"
	"github.com/toeirei/uidcolumn/internal/i18n"
	"github.com/toeirei/uidcolumn/internal/logging"
	"github.com/toeirei/uidcolumn/internal/uidtype"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var (
	appConfig config.Config
	registry  = uidtype.NewDefaultRegistry()
)

// openStoreFunc allows tests to substitute the store.
var openStoreFunc = func(ctx context.Context, c config.Config, r *uidtype.Registry) (*db.Store, error) {
	return db.Open(ctx, db.Options{
		Type:            c.Database.Type,
		DSN:             c.Database.Dsn,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.Database.ConnMaxLifetimeSec) * time.Second,
		Registry:        r,
	})
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, configPath)
	// A missing file is expected on first run.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("%s", i18n.T("error.config_written", writeErr))
		}
	} else if err != nil {
		return errors.New(i18n.T("error.config", err))
	}

	// Empty values in the file fall back to the defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.LogLevel == "" {
		appConfig.LogLevel = defaults["log_level"].(string)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		appConfig.LogLevel = "debug"
	}
	if err := logging.SetLevel(appConfig.LogLevel); err != nil {
		return err
	}
	if err := i18n.Init(appConfig.Language); err != nil {
		return err
	}

	registry = uidtype.NewDefaultRegistry()
	return appConfig.ApplyColumnTypes(registry)
}

// withStore opens the configured database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(s *db.Store) error) error {
	s, err := openStoreFunc(cmd.Context(), appConfig, registry)
	if err != nil {
		return errors.New(i18n.T("error.init_db", err))
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logging.Warnf("closing database: %v", cerr)
		}
	}()
	return fn(s)
}

// Execute runs the CLI entrypoint.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates a fresh root command with every subcommand attached.
// Tests call it once per execution.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "uidcolumn",
		Short:             i18n.T("root.short"),
		Long:              i18n.T("root.long"),
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
		Version:           compositeVersion(),
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file")
	pf.String("db-type", "", `Database type ("sqlite", "postgres", "mysql")`)
	pf.String("db-dsn", "", "Database connection string (DSN)")
	pf.String("lang", "", `Output language ("en", "de")`)
	pf.String("log-level", "", `Log level ("debug", "info", "warn", "error")`)
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newTypesCmd(),
		newConvertCmd(),
		newGenerateCmd(),
		newInspectCmd(),
		newSchemaCmd(),
		newMigrateCmd(),
		newMaintenanceCmd(),
		newResourceCmd(),
		newExportCmd(),
		newImportCmd(),
		newVersionCmd(),
	)
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// Version output needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/uidcolumn" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit passed via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
