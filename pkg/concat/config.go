// File: pkg/concat/config.go
package concat

import "fmt"

// BinaryPolicy selects what happens to files the classifier marks binary.
type BinaryPolicy int

const (
	BinarySkip        BinaryPolicy = iota // omit binary files entirely (default)
	BinaryInclude                         // concatenate binary content verbatim
	BinaryPlaceholder                     // emit a one-line placeholder instead of content
)

// String returns the CLI spelling of the policy.
func (p BinaryPolicy) String() string {
	switch p {
	case BinaryInclude:
		return "include"
	case BinaryPlaceholder:
		return "placeholder"
	default:
		return "skip"
	}
}

// SymlinkPolicy selects how symbolic links are treated during traversal.
type SymlinkPolicy int

const (
	SymlinkSkip        SymlinkPolicy = iota // ignore all symlinks (default, safe)
	SymlinkFollow                           // follow symlinks with loop detection
	SymlinkInclude                          // include symlink targets as files, no recursion
	SymlinkPlaceholder                      // show symlinks in structure, never follow
)

// String returns the CLI spelling of the policy.
func (p SymlinkPolicy) String() string {
	switch p {
	case SymlinkFollow:
		return "follow"
	case SymlinkInclude:
		return "include"
	case SymlinkPlaceholder:
		return "placeholder"
	default:
		return "skip"
	}
}

// ParseSymlinkPolicy maps a --symlinks mode string to its policy.
func ParseSymlinkPolicy(mode string) (SymlinkPolicy, error) {
	switch mode {
	case "skip":
		return SymlinkSkip, nil
	case "follow":
		return SymlinkFollow, nil
	case "include":
		return SymlinkInclude, nil
	case "placeholder":
		return SymlinkPlaceholder, nil
	default:
		return SymlinkSkip, fmt.Errorf("invalid symlink mode %q: use skip, follow, include, or placeholder", mode)
	}
}

// Config holds the validated options for a single run. It is immutable
// once the run starts.
type Config struct {
	BasePath      string        // Root directory to traverse.
	OutputPath    string        // Destination file for the combined artifact.
	Excludes      *ExcludeSet   // Wildcard exclusion patterns.
	BinaryPolicy  BinaryPolicy  // Disposition of binary files.
	SymlinkPolicy SymlinkPolicy // Disposition of symbolic links.
	ShowSize      bool          // Decorate tree entries with formatted sizes.
	PluginChain   []string      // Plugin names or shared-object paths, in order.
	Interactive   bool          // Stay alive after the run until signaled.
	Verbose       bool          // Route per-entry annotations to the diagnostic stream.
}
