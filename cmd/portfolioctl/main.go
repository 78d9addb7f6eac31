package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Administer a portfolio site",
		Long: `portfolioctl manages the content of a portfolio site directly against its
database and file storage. It reads the same environment as the server
(DATABASE_URL, STORAGE_URL, JWT_SECRET, ...), including a .env file in the
working directory.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewHashPasswordCommand())
	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewProjectsCommand())
	rootCmd.AddCommand(NewMessagesCommand())
	rootCmd.AddCommand(NewSkillsCommand())
	rootCmd.AddCommand(NewUploadCommand())

	return rootCmd
}

// loadConfig reads the server configuration from the environment
func loadConfig() (*config.ServerConfig, error) {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// openRuntime builds the service the same way the server does
func openRuntime(cmd *cobra.Command) (*config.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var logOut io.Writer = io.Discard
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cfg.Build(ctx, logger)
}
