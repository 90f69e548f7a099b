package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/config"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "nextstep",
		Short: "resume to job matching service",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run nextstep server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	parseCmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a resume file and print the result as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args[0])
		},
	}

	var scoreConfig string
	scoreCmd := &cobra.Command{
		Use:   "score <resume> <job>",
		Short: "score a resume file against a job description file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			if scoreConfig != "" {
				loaded, err := loadConfig(scoreConfig)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return runScore(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1])
		},
	}
	scoreCmd.Flags().StringVar(&scoreConfig, "config", "", "config.json providing the embedding setup; skills only when empty")

	rootCmd.AddCommand(runCmd, parseCmd, scoreCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logutil.GetLogger(context.Background()).Fatal("command failed", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}
