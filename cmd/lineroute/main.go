// Package main provides the LineRoute demo CLI entry point.
// LineRoute is a declarative command routing and dispatch engine; the demo
// hosts a small command set behind an interactive prompt and a batch runner.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lineroute/internal/logger"
	"lineroute/internal/version"
)

var (
	logLevel     string
	logFile      string
	manifestPath string
	strictArgs   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lineroute",
	Short: "LineRoute - declarative command routing and dispatch engine",
	Long: `LineRoute routes text commands through a declarative command tree:
tokenizing, permission and cooldown checks, typed argument resolution, and
classified error handling, driven entirely by registered command specs.`,
	Run: runRepl, // Default behavior is to run the interactive prompt
}

// replCmd represents the repl command (explicit version of default behavior)
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive prompt",
	Long:  `Start the interactive LineRoute prompt against the demo command set.`,
	Run:   runRepl,
}

// batchCmd represents the batch command for non-interactive script execution
var batchCmd = &cobra.Command{
	Use:   "batch <script.lr>",
	Short: "Dispatch each line of a script file",
	Long: `Dispatch every line of a script file through the engine without entering
interactive mode. Useful for smoke tests and scripted demos.`,
	Args: cobra.ExactArgs(1),
	Run:  runBatch,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version of LineRoute.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Load additional commands from a YAML manifest")
	rootCmd.PersistentFlags().BoolVar(&strictArgs, "strict", false, "Reject dispatches with unconsumed trailing arguments")

	// Bind flags to viper
	for _, name := range []string{"log-level", "log-file", "manifest", "strict"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	// Add subcommands
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env next to the binary can supply LINEROUTE_* settings
	_ = godotenv.Load()

	if err := logger.Configure(logLevel, logFile, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runRepl(_ *cobra.Command, _ []string) {
	logger.Info("Starting LineRoute", "version", version.GetVersion())

	app, err := newDemoApp(strictArgs, manifestPath)
	if err != nil {
		logger.Fatal("Failed to build demo command set", "error", err)
	}
	defer app.Close()

	app.RunRepl(os.Stdin, os.Stdout)
}

func runBatch(_ *cobra.Command, args []string) {
	scriptPath := args[0]

	logger.Info("Starting LineRoute batch mode", "version", version.GetVersion(), "script", scriptPath)

	if err := validateScriptFile(scriptPath); err != nil {
		logger.Fatal("Script validation failed", "error", err)
	}

	app, err := newDemoApp(strictArgs, manifestPath)
	if err != nil {
		logger.Fatal("Failed to build demo command set", "error", err)
	}
	defer app.Close()

	if err := app.RunScript(scriptPath, os.Stdout); err != nil {
		logger.Fatal("Script execution failed", "error", err)
	}

	logger.Info("Script executed successfully", "script", scriptPath)
}

func validateScriptFile(scriptPath string) error {
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}

	if ext := filepath.Ext(scriptPath); ext != ".lr" {
		return fmt.Errorf("script file must have .lr extension, got: %s", ext)
	}

	return nil
}
