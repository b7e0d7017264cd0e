// Package commands provides high-level command implementations for atfile.
//
// This package contains the command orchestration layer that coordinates
// between the CLI interface and the codec.
//
// Each command is implemented in its own subdirectory:
//   - write/    - WriteFiles command
//   - read/     - ReadFiles command
//   - check/    - CheckFiles command
//   - classify/ - ClassifyFile command
//   - internal/ - Outline loading and derived file discovery
//
// This file re-exports the command functions so callers need a single
// import.
package commands

import (
	"context"

	"github.com/arthur-debert/atfile/pkg/commands/check"
	"github.com/arthur-debert/atfile/pkg/commands/classify"
	"github.com/arthur-debert/atfile/pkg/commands/read"
	"github.com/arthur-debert/atfile/pkg/commands/write"
	"github.com/arthur-debert/atfile/pkg/ui/display"
)

// WriteFiles writes the derived files of an outline.
type WriteFilesOptions = write.WriteFilesOptions

func WriteFiles(ctx context.Context, opts WriteFilesOptions) (*display.CommandResult, error) {
	return write.WriteFiles(ctx, opts)
}

// ReadFiles rebuilds outline trees from derived files.
type ReadFilesOptions = read.ReadFilesOptions
type ReadFilesResult = read.ReadFilesResult

func ReadFiles(ctx context.Context, opts ReadFilesOptions) (*ReadFilesResult, error) {
	return read.ReadFiles(ctx, opts)
}

// CheckFiles verifies that derived files round-trip.
type CheckFilesOptions = check.CheckFilesOptions

func CheckFiles(ctx context.Context, opts CheckFilesOptions) (*display.CommandResult, error) {
	return check.CheckFiles(ctx, opts)
}

// ClassifyFile reports the sentinel kind of each line of a derived file.
type ClassifyFileOptions = classify.ClassifyFileOptions

func ClassifyFile(opts ClassifyFileOptions) (*display.ClassifyResult, error) {
	return classify.ClassifyFile(opts)
}
