package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/s2cr/repair-desk/internal/app"
	"github.com/s2cr/repair-desk/internal/pkg/config"
	"github.com/s2cr/repair-desk/pkg/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "s2cr",
	Short: "S2CR repair-dispatch accounts and sessions",
	Long: `s2cr serves the login, registration and role-restricted areas of the
S2CR repair-dispatch application, and manages accounts from the command line.

Configuration is read from the environment (PORT, STORAGE, MONGO_URI, REDIS_ADDR,
SESSION_SECRET, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if storage, ok := changedString(cmd.Flags(), "storage"); ok {
			cfg.Storage = storage
		}

		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			Output:  os.Stderr,
			Service: "s2cr",
		})

		generated, err := cfg.EnsureSessionSecret()
		if err != nil {
			return err
		}
		if generated {
			log.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("storage", "", "Storage backend: mongo or memory (env: STORAGE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(createTechnicianCmd)
	rootCmd.AddCommand(setPasswordCmd)
	rootCmd.AddCommand(setActiveCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// changedString returns the value of an explicitly set string flag.
func changedString(fs *pflag.FlagSet, name string) (string, bool) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

// withApp builds the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()
	return fn(ctx, a)
}
