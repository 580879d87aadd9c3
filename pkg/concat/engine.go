// File: pkg/concat/engine.go
package concat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sonemaro/fconcat/pkg/plugin"

	"go.uber.org/zap"
)

// Run executes one concatenation: validation, auto-exclusion, plugin
// loading, the structure pass, the content pass, and plugin shutdown.
// In interactive mode it blocks after the run until SIGINT or SIGTERM so
// long-lived plugins keep running.
func Run(cfg *Config, logger *zap.Logger) (*Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("input directory %q: %w", cfg.BasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %q is not a directory", cfg.BasePath)
	}

	if cfg.Excludes == nil {
		cfg.Excludes = NewExcludeSet(logger)
	}
	autoExcludeOutput(cfg, logger)

	chain := plugin.NewChain(logger)
	if err := chain.Load(cfg.PluginChain); err != nil {
		chain.Shutdown()
		return nil, err
	}

	outFile, err := os.Create(cfg.OutputPath)
	if err != nil {
		chain.Shutdown()
		return nil, fmt.Errorf("opening output file %q: %w", cfg.OutputPath, err)
	}

	stats := &Stats{}
	writer := bufio.NewWriter(outFile)
	runErr := runPasses(cfg, writer, chain, stats, logger)

	if flushErr := writer.Flush(); runErr == nil && flushErr != nil {
		runErr = fmt.Errorf("flushing output: %w", flushErr)
	}
	if closeErr := outFile.Close(); runErr == nil && closeErr != nil {
		runErr = fmt.Errorf("closing output: %w", closeErr)
	}
	if runErr != nil {
		chain.Shutdown()
		return nil, runErr
	}

	if cfg.Interactive {
		logger.Info("Interactive mode: waiting for termination signal")
		waitForSignal()
	}
	chain.Shutdown()

	return stats, nil
}

// runPasses writes the structure section, the optional total-size
// footer, and the contents section. Each pass starts with a fresh inode
// tracker so both resolve symlinks identically.
func runPasses(cfg *Config, out io.Writer, chain *plugin.Chain, stats *Stats, logger *zap.Logger) error {
	w := &walker{
		cfg:     cfg,
		out:     out,
		tracker: NewInodeTracker(),
		chain:   chain,
		logger:  logger,
		stats:   stats,
	}

	if _, err := io.WriteString(out, structureHeader); err != nil {
		return err
	}
	if err := w.walk("", 0, passStructure); err != nil {
		return fmt.Errorf("structure pass: %w", err)
	}
	if cfg.ShowSize {
		if _, err := io.WriteString(out, totalSizeFooter(stats.TotalSize)); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(out, contentsHeader); err != nil {
		return err
	}
	w.tracker = NewInodeTracker()
	if err := w.walk("", 0, passContent); err != nil {
		return fmt.Errorf("content pass: %w", err)
	}

	return nil
}

// autoExcludeOutput keeps the output file from being read back into
// itself when it lives inside the input tree: exclude it by absolute
// path, by relative path, always by basename, and by the raw argument
// when the base is the current directory.
func autoExcludeOutput(cfg *Config, logger *zap.Logger) {
	absInput, inErr := filepath.Abs(cfg.BasePath)
	absOutput, outErr := filepath.Abs(cfg.OutputPath)

	if inErr == nil && outErr == nil {
		if absOutput == absInput || strings.HasPrefix(absOutput, absInput+string(os.PathSeparator)) {
			logger.Debug("Auto-excluding output file by absolute path", zap.String("pattern", absOutput))
			cfg.Excludes.Add(absOutput)

			if rel, err := filepath.Rel(absInput, absOutput); err == nil {
				logger.Debug("Auto-excluding output file by relative path", zap.String("pattern", rel))
				cfg.Excludes.Add(rel)
			}
		}
	}

	base := filepath.Base(cfg.OutputPath)
	logger.Debug("Auto-excluding output file by name", zap.String("pattern", base))
	cfg.Excludes.Add(base)

	if cfg.BasePath == "." {
		logger.Debug("Auto-excluding output file by raw path", zap.String("pattern", cfg.OutputPath))
		cfg.Excludes.Add(cfg.OutputPath)
	}
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)
}
