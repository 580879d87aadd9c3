// Package plugin hosts the streaming content-transformer chain. A plugin
// exposes a Descriptor with up to six lifecycle operations; the host
// drives them per file and pipes content through every plugin in chain
// order, one bounded chunk at a time.
package plugin

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ChunkSize is the fixed read size of the per-file pipeline. The last
// chunk is not specially marked; end of file is signaled by FileEnd.
const ChunkSize = 4096

// Context is the opaque per-file state a plugin allocates in FileStart
// and releases in FileCleanup. The host never inspects it.
type Context any

// Descriptor describes a streaming plugin. Any operation may be nil.
//
// FileStart returning a nil Context skips the plugin for that file only.
// ProcessChunk may return zero bytes to pass the input through unchanged
// and may retain internal carry-over for detectors that span chunk
// boundaries. FileEnd is the final flush opportunity; its bytes are
// appended to the sink.
type Descriptor struct {
	Name    string
	Version string

	Init         func() error
	Cleanup      func()
	FileStart    func(relPath string) Context
	ProcessChunk func(ctx Context, input []byte) ([]byte, error)
	FileEnd      func(ctx Context) ([]byte, error)
	FileCleanup  func(ctx Context)
}

// Chain is an ordered, initialized sequence of plugins.
type Chain struct {
	plugins []*Descriptor
	logger  *zap.Logger
	done    bool
}

// NewChain returns an empty chain.
func NewChain(logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{logger: logger}
}

// Len reports the number of loaded plugins.
func (c *Chain) Len() int {
	return len(c.plugins)
}

// add appends a resolved descriptor and runs its Init. An Init error is
// fatal for the run.
func (c *Chain) add(desc *Descriptor) error {
	if desc.Init != nil {
		if err := desc.Init(); err != nil {
			return fmt.Errorf("plugin %q init failed: %w", desc.Name, err)
		}
	}
	c.plugins = append(c.plugins, desc)
	c.logger.Debug("Loaded plugin",
		zap.String("plugin", desc.Name),
		zap.String("version", desc.Version),
		zap.Int("position", len(c.plugins)-1))
	return nil
}

// StreamFile pipes one file through the chain: FileStart on every
// plugin, ChunkSize reads fed left-to-right, FileEnd tails appended to
// the sink, FileCleanup on every context. With an empty chain the
// pipeline degenerates to a direct copy.
//
// A per-chunk plugin error discards only that plugin's contribution for
// that chunk; the pipeline continues with the buffer it had before the
// failing plugin.
func (c *Chain) StreamFile(relPath string, r io.Reader, w io.Writer) error {
	ctxs := make([]Context, len(c.plugins))
	active := make([]bool, len(c.plugins))
	for i, p := range c.plugins {
		if p.FileStart == nil {
			active[i] = true
			continue
		}
		ctxs[i] = p.FileStart(relPath)
		active[i] = ctxs[i] != nil
		if !active[i] {
			c.logger.Debug("Plugin skipped file",
				zap.String("plugin", p.Name),
				zap.String("file", relPath))
		}
	}
	defer func() {
		for i, p := range c.plugins {
			if active[i] && p.FileCleanup != nil {
				p.FileCleanup(ctxs[i])
			}
		}
	}()

	buf := make([]byte, ChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			for i, p := range c.plugins {
				if !active[i] || p.ProcessChunk == nil {
					continue
				}
				out, err := p.ProcessChunk(ctxs[i], chunk)
				if err != nil {
					c.logger.Debug("Plugin chunk failed, contribution discarded",
						zap.String("plugin", p.Name),
						zap.String("file", relPath),
						zap.Error(err))
					continue
				}
				if len(out) > 0 {
					chunk = out
				}
			}
			if _, err := w.Write(chunk); err != nil {
				return fmt.Errorf("writing transformed chunk: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", relPath, readErr)
		}
	}

	for i, p := range c.plugins {
		if !active[i] || p.FileEnd == nil {
			continue
		}
		tail, err := p.FileEnd(ctxs[i])
		if err != nil {
			c.logger.Debug("Plugin file_end failed",
				zap.String("plugin", p.Name),
				zap.String("file", relPath),
				zap.Error(err))
			continue
		}
		if len(tail) > 0 {
			if _, err := w.Write(tail); err != nil {
				return fmt.Errorf("writing plugin tail: %w", err)
			}
		}
	}

	return nil
}

// Shutdown calls Cleanup on every plugin in reverse load order, at most
// once.
func (c *Chain) Shutdown() {
	if c.done {
		return
	}
	c.done = true
	for i := len(c.plugins) - 1; i >= 0; i-- {
		if c.plugins[i].Cleanup != nil {
			c.plugins[i].Cleanup()
		}
		c.logger.Debug("Unloaded plugin", zap.String("plugin", c.plugins[i].Name))
	}
}
