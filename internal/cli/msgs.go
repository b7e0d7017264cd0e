package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Write and read Leo derived files"
	MsgWriteShort    = "Write the derived files of an outline"
	MsgReadShort     = "Read derived files into an outline"
	MsgCheckShort    = "Verify that derived files round-trip"
	MsgClassifyShort = "Show the sentinel kind of each line"
	MsgConfigShort   = "Print the effective configuration"
	MsgVersionShort  = "Print version information"
	MsgVersionLong   = "Print detailed version information including commit hash and build date"

	// Version output
	MsgVersionFormat = "atfile version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrWrite    = "failed to write derived files: %w"
	MsgErrRead     = "failed to read derived files: %w"
	MsgErrCheck    = "failed to check derived files: %w"
	MsgErrClassify = "failed to classify %s: %w"
	MsgErrFailed   = "%d of %d files failed"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig          = "Config file, TOML or YAML (default is $XDG_CONFIG_HOME/atfile/config.toml)"
	MsgFlagFormat          = "Output format: auto, terminal, text or json"
	MsgFlagTabWidth        = "Indentation: negative for spaces, positive for tabs"
	MsgFlagPageWidth       = "Column at which doc parts are wrapped"
	MsgFlagNewline         = "Line ending written: nl, lf, cr, crlf or platform"
	MsgFlagEncoding        = "Encoding of derived files"
	MsgFlagDialect         = "Sentinel dialect: thin or thick"
	MsgFlagLanguage        = "Language used when a file's extension is unknown"
	MsgFlagStripBlank      = "Write whitespace-only lines as empty lines"
	MsgFlagSingleLine      = "Use # sentinels regardless of the language"
	MsgFlagConcurrency     = "Number of files written at once"
	MsgFlagSave            = "Save the outline after writing, keeping allocated gnx values"
	MsgFlagOutline         = "Outline to update from its derived files"
	MsgFlagDiff            = "Print the diff of files that do not round-trip"
	MsgFlagDefaultsOnly    = "Print the built-in defaults instead of the effective configuration"
	MsgDefaultsHeader      = "# atfile built-in defaults"
	MsgEffectiveConfigNote = "# effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/write-long.txt
	msgWriteLongRaw string
	MsgWriteLong    = strings.TrimSpace(msgWriteLongRaw)

	//go:embed msgs/write-example.txt
	msgWriteExampleRaw string
	MsgWriteExample    = strings.TrimRight(msgWriteExampleRaw, "\n")

	//go:embed msgs/read-long.txt
	msgReadLongRaw string
	MsgReadLong    = strings.TrimSpace(msgReadLongRaw)

	//go:embed msgs/read-example.txt
	msgReadExampleRaw string
	MsgReadExample    = strings.TrimRight(msgReadExampleRaw, "\n")

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/classify-long.txt
	msgClassifyLongRaw string
	MsgClassifyLong    = strings.TrimSpace(msgClassifyLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
