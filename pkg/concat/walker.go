// File: pkg/concat/walker.go
package concat

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sonemaro/fconcat/pkg/plugin"

	"go.uber.org/zap"
)

// maxRelPathLen bounds joined relative paths; overlong entries are
// skipped with a warning.
const maxRelPathLen = 4096

type passMode int

const (
	passStructure passMode = iota
	passContent
)

// walker drives one pass over the tree. The structure pass and the
// content pass use identical policy decisions so both visit the same
// entries in the same order.
type walker struct {
	cfg     *Config
	out     io.Writer
	tracker *InodeTracker
	chain   *plugin.Chain
	logger  *zap.Logger
	stats   *Stats
}

// walk processes the directory at rel (relative to cfg.BasePath) in the
// given pass mode. Entries are visited sorted by file name, as os.ReadDir
// returns them; the host's raw enumeration order is not used.
func (w *walker) walk(rel string, level int, mode passMode) error {
	dirPath := filepath.Join(w.cfg.BasePath, rel)
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if w.cfg.Verbose {
			w.logger.Debug("Cannot open directory", zap.String("path", dirPath), zap.Error(err))
		}
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()

		entryRel := name
		if rel != "" {
			entryRel = rel + string(os.PathSeparator) + name
		}
		if len(entryRel) > maxRelPathLen {
			w.logger.Warn("Skipping overlong path", zap.String("dir", rel), zap.String("name", name))
			continue
		}

		if w.cfg.Excludes.Matches(entryRel) {
			continue
		}

		entryPath := filepath.Join(w.cfg.BasePath, entryRel)
		info, err := os.Lstat(entryPath)
		if err != nil {
			if w.cfg.Verbose {
				w.logger.Debug("Cannot access entry", zap.String("path", entryPath), zap.Error(err))
			}
			continue
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := w.visitSymlink(entryPath, entryRel, name, level, mode); err != nil {
				return err
			}
		case info.IsDir():
			if mode == passStructure {
				if _, err := io.WriteString(w.out, treeDirLine(level, name)); err != nil {
					return err
				}
			} else {
				w.stats.DirsProcessed++
			}
			if err := w.walk(entryRel, level+1, mode); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if mode == passStructure {
				size := uint64(info.Size())
				w.stats.TotalSize += size
				if _, err := io.WriteString(w.out, treeFileLine(level, name, size, w.cfg.ShowSize)); err != nil {
					return err
				}
			} else if err := w.emitFileContents(entryPath, entryRel, false); err != nil {
				return err
			}
		default:
			// Sockets, FIFOs and devices are ignored.
		}
	}

	return nil
}

// visitSymlink applies the symlink policy matrix to one link entry.
func (w *walker) visitSymlink(path, rel, name string, level int, mode passMode) error {
	if w.cfg.SymlinkPolicy == SymlinkSkip {
		if w.cfg.Verbose {
			w.logger.Debug("Skipping symlink", zap.String("path", rel))
		}
		if mode == passContent {
			w.stats.SymlinksSkipped++
			return nil
		}
		_, err := io.WriteString(w.out, treeSymlinkSkipped(level, name))
		return err
	}

	target, err := os.Stat(path)
	if err != nil {
		// A self-referential link resolves to ELOOP; under Follow and
		// Include that is a cycle, not a broken target.
		if errors.Is(err, syscall.ELOOP) &&
			(w.cfg.SymlinkPolicy == SymlinkFollow || w.cfg.SymlinkPolicy == SymlinkInclude) {
			if w.cfg.Verbose {
				w.logger.Debug("Symlink loop detected", zap.String("path", rel))
			}
			if mode == passStructure {
				_, werr := io.WriteString(w.out, treeSymlinkLoop(level, name))
				return werr
			}
			w.stats.SymlinksSkipped++
			return nil
		}
		if w.cfg.Verbose {
			w.logger.Debug("Broken symlink", zap.String("path", rel), zap.Error(err))
		}
		if mode == passStructure {
			_, werr := io.WriteString(w.out, treeSymlinkBroken(level, name))
			return werr
		}
		w.stats.SymlinksSkipped++
		if w.cfg.SymlinkPolicy == SymlinkPlaceholder {
			_, werr := io.WriteString(w.out, brokenSymlinkPlaceholder(filepath.ToSlash(rel)))
			return werr
		}
		return nil
	}

	switch w.cfg.SymlinkPolicy {
	case SymlinkPlaceholder:
		if mode == passStructure {
			if target.IsDir() {
				_, werr := io.WriteString(w.out, treeSymlinkToDir(level, name))
				return werr
			}
			size := uint64(target.Size())
			w.stats.TotalSize += size
			_, werr := io.WriteString(w.out, treeSymlinkPlaceholder(level, name, size, w.cfg.ShowSize))
			return werr
		}
		if !target.IsDir() {
			w.stats.SymlinksProcessed++
			_, werr := io.WriteString(w.out, symlinkContentPlaceholder(filepath.ToSlash(rel)))
			return werr
		}
		return nil

	case SymlinkFollow, SymlinkInclude:
		dev, ino, ok := fileID(target)
		if ok && !w.tracker.Add(dev, ino) {
			if w.cfg.Verbose {
				w.logger.Debug("Symlink loop detected", zap.String("path", rel))
			}
			if mode == passStructure {
				_, werr := io.WriteString(w.out, treeSymlinkLoop(level, name))
				return werr
			}
			w.stats.SymlinksSkipped++
			return nil
		}

		if target.IsDir() {
			if w.cfg.SymlinkPolicy != SymlinkFollow {
				// Include applies only to symlink-to-file.
				return nil
			}
			if mode == passStructure {
				if _, err := io.WriteString(w.out, treeSymlinkFollowing(level, name)); err != nil {
					return err
				}
			}
			return w.walk(rel, level+1, mode)
		}

		if mode == passStructure {
			size := uint64(target.Size())
			w.stats.TotalSize += size
			_, werr := io.WriteString(w.out, treeSymlinkFile(level, name, size, w.cfg.ShowSize))
			return werr
		}
		w.stats.SymlinksProcessed++
		return w.emitFileContents(path, rel, true)
	}

	return nil
}

// emitFileContents streams one file of the content pass: classification,
// binary policy, header, plugin pipeline, trailer.
func (w *walker) emitFileContents(path, rel string, viaSymlink bool) error {
	relSlash := filepath.ToSlash(rel)

	binary, err := ClassifyFile(path)
	if err != nil {
		if w.cfg.Verbose {
			w.logger.Debug("Cannot classify file", zap.String("path", path), zap.Error(err))
		}
		w.stats.FilesSkipped++
		return nil
	}

	if binary {
		switch w.cfg.BinaryPolicy {
		case BinarySkip:
			if w.cfg.Verbose {
				w.logger.Debug("Skipping binary file", zap.String("path", relSlash))
			}
			w.stats.FilesSkipped++
			return nil
		case BinaryPlaceholder:
			w.stats.FilesProcessed++
			_, werr := io.WriteString(w.out, binaryPlaceholder(relSlash, viaSymlink))
			return werr
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if w.cfg.Verbose {
			w.logger.Debug("Cannot open file", zap.String("path", path), zap.Error(err))
		}
		w.stats.FilesSkipped++
		return nil
	}
	defer file.Close()

	if _, err := io.WriteString(w.out, fileHeader(relSlash, viaSymlink)); err != nil {
		return err
	}
	if err := w.chain.StreamFile(relSlash, file, w.out); err != nil {
		return err
	}
	if _, err := io.WriteString(w.out, fileTrailer); err != nil {
		return err
	}

	if info, err := file.Stat(); err == nil {
		w.stats.BytesProcessed += uint64(info.Size())
	}
	w.stats.FilesProcessed++
	return nil
}
