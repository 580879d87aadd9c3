package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/sonemaro/fconcat/pkg/concat"
	"github.com/sonemaro/fconcat/pkg/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	flagExcludes    []string
	flagShowSize    bool
	flagBinarySkip  bool
	flagBinaryIncl  bool
	flagBinaryPlace bool
	flagSymlinks    string
	flagPlugins     []string
	flagInteractive bool

	rootLogger *zap.Logger
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "fconcat <input_directory> <output_file>",
	Short: "fconcat concatenates a directory tree into a single text artifact",
	Long: `fconcat recursively scans <input_directory>, writes a tree view of its
structure, and concatenates the contents of every included file into
<output_file>, streaming each file through an optional plugin chain.
Designed for feeding codebases to language models and producing project
snapshots.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	RootCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "wildcard patterns ('*', '?') to exclude; repeatable")
	RootCmd.Flags().BoolVarP(&flagShowSize, "show-size", "s", false, "display file sizes in the structure view and a total")
	RootCmd.Flags().BoolVar(&flagBinarySkip, "binary-skip", false, "skip binary files entirely (default)")
	RootCmd.Flags().BoolVar(&flagBinaryIncl, "binary-include", false, "include binary files in the concatenation")
	RootCmd.Flags().BoolVar(&flagBinaryPlace, "binary-placeholder", false, "show a placeholder for binary files instead of content")
	RootCmd.Flags().StringVar(&flagSymlinks, "symlinks", "skip", "symlink handling: skip, follow, include, or placeholder")
	RootCmd.Flags().StringArrayVar(&flagPlugins, "plugin", nil, "plugin name or shared-object path to append to the chain; repeatable")
	RootCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "stay alive after the run until SIGINT/SIGTERM")
	RootCmd.MarkFlagsMutuallyExclusive("binary-skip", "binary-include", "binary-placeholder")
}

// Execute runs the root command with the process logger.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

// verboseFromEnv reads FCONCAT_VERBOSE through viper; "1" and "true"
// (case-insensitive) enable verbose diagnostics.
func verboseFromEnv() bool {
	v := viper.New()
	v.SetEnvPrefix("FCONCAT")
	if err := v.BindEnv("verbose"); err != nil {
		return false
	}
	raw := strings.ToLower(strings.TrimSpace(v.GetString("verbose")))
	return raw == "1" || raw == "true"
}

func binaryPolicyFromFlags() concat.BinaryPolicy {
	switch {
	case flagBinaryIncl:
		return concat.BinaryInclude
	case flagBinaryPlace:
		return concat.BinaryPlaceholder
	default:
		return concat.BinarySkip
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	start := time.Now()
	verbose := verboseFromEnv()

	logger := rootLogger
	if verbose {
		if verboseLogger, err := logging.Setup(true, "fconcat", "1.0.0"); err == nil {
			logger = verboseLogger
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	symlinkPolicy, err := concat.ParseSymlinkPolicy(flagSymlinks)
	if err != nil {
		return err
	}

	excludes := concat.NewExcludeSet(logger)
	for _, pattern := range flagExcludes {
		logger.Debug("Adding exclude pattern", zap.String("pattern", pattern))
		excludes.Add(pattern)
	}

	cfg := &concat.Config{
		BasePath:      args[0],
		OutputPath:    args[1],
		Excludes:      excludes,
		BinaryPolicy:  binaryPolicyFromFlags(),
		SymlinkPolicy: symlinkPolicy,
		ShowSize:      flagShowSize,
		PluginChain:   flagPlugins,
		Interactive:   flagInteractive,
		Verbose:       verbose,
	}

	printBanner(cfg)

	stats, err := concat.Run(cfg, logger)
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "❌ %v\n", err)
		return err
	}

	printSummary(cfg, stats, time.Since(start))
	return nil
}

func printBanner(cfg *concat.Config) {
	color.New(color.FgCyan, color.Bold).Println("fconcat - streaming file concatenator")
	fmt.Println()
	fmt.Printf("Input directory : %s\n", cfg.BasePath)
	fmt.Printf("Output file     : %s\n", cfg.OutputPath)
	fmt.Printf("Binary handling : %s\n", cfg.BinaryPolicy)
	fmt.Printf("Symlink handling: %s\n", cfg.SymlinkPolicy)
	if n := cfg.Excludes.Len(); n > 0 {
		fmt.Printf("Exclude patterns: %d patterns loaded\n", n)
	}
	if len(cfg.PluginChain) > 0 {
		fmt.Printf("Plugin chain    : %s\n", strings.Join(cfg.PluginChain, " -> "))
	}
	fmt.Println()
}

func printSummary(cfg *concat.Config, stats *concat.Stats, elapsed time.Duration) {
	color.New(color.FgGreen).Printf("🎉 Success! Output written to '%s'\n", cfg.OutputPath)
	fmt.Printf("⏱️  Processing time: %.3f seconds\n", elapsed.Seconds())
	fmt.Printf("📄 Files: %d processed, %d skipped\n", stats.FilesProcessed, stats.FilesSkipped)
	if stats.SymlinksProcessed > 0 || stats.SymlinksSkipped > 0 {
		fmt.Printf("🔗 Symlinks: %d processed, %d skipped\n", stats.SymlinksProcessed, stats.SymlinksSkipped)
	}
	fmt.Printf("📦 Data: %s processed\n", concat.FormatSize(stats.BytesProcessed))
	if secs := elapsed.Seconds(); secs > 0 && stats.FilesProcessed > 0 {
		fmt.Printf("📊 Performance: %.0f files/sec, %.1f MB/sec\n",
			float64(stats.FilesProcessed)/secs,
			float64(stats.BytesProcessed)/secs/(1024*1024))
	}
}
