package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildstamp/buildstamp/internal/util"
)

var (
	// Configuration
	cfgFile string

	// Data path
	buildDir string

	// Output related
	outputFormat string
	timezone     string

	// Logging related
	debug bool

	rootCmd = &cobra.Command{
		Use:   "buildstamp",
		Short: "Record and inspect per-build log line timestamps",
		Long: `buildstamp keeps one compact timestamp per emitted build log line in an
append-only binary log, and decodes it back into elapsed and wall-clock time.

Examples:
  some-build 2>&1 | buildstamp record --dir /var/builds/42   # timestamp each line
  buildstamp dump --dir /var/builds/42                       # print the decoded log
  buildstamp dump --dir /var/builds/42 --skip 1000 --follow  # tail a running build
  buildstamp stats --dir /var/builds/42                      # summarize the log`,
		PersistentPreRunE: setup,
	}
)

const defaultLogFile = "~/.buildstamp/logs/app.log"

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default is $HOME/.buildstamp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&buildDir, "dir", "",
		"Per-build directory holding the timestamp log")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format (table, json, csv; default: table on a terminal, csv otherwise)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for wall-clock output (e.g. Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".buildstamp"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("buildstamp")
	viper.AutomaticEnv()
	viper.BindEnv("dir", "BUILDSTAMP_DIR")

	if err := viper.ReadInConfig(); err == nil {
		if buildDir == "" {
			buildDir = viper.GetString("dir")
		}
		if !rootCmd.PersistentFlags().Changed("timezone") && viper.GetString("timezone") != "" {
			timezone = viper.GetString("timezone")
		}
	} else if buildDir == "" {
		buildDir = viper.GetString("dir")
	}
}

// setup initializes logging and the time provider once flags and config
// are resolved; every subcommand runs through it.
func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)

	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	if buildDir == "" {
		return fmt.Errorf("no build directory given: pass --dir, set BUILDSTAMP_DIR, or configure 'dir' in %s", "$HOME/.buildstamp/config.yaml")
	}
	buildDir = expandPath(buildDir)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
