package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/atfile/internal/version"
	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/config"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// codecFlags maps command line flags to configuration keys. Flags the user
// sets override the config file and the environment.
var codecFlags = []struct {
	flag, key string
}{
	{"tab-width", "codec.tab_width"},
	{"page-width", "codec.page_width"},
	{"newline", "codec.output_newline"},
	{"encoding", "codec.encoding"},
	{"dialect", "codec.dialect"},
	{"language", "codec.language"},
	{"strip-blank-lines", "codec.strip_blank_lines"},
	{"force-single-line-comments", "codec.force_single_line_comments"},
	{"concurrency", "batch.concurrency"},
}

type globalFlags struct {
	verbosity  int
	configFile string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "atfile",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	pf.StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)

	// Codec flags; defaults come from the configuration
	pf.Int("tab-width", 0, MsgFlagTabWidth)
	pf.Int("page-width", 0, MsgFlagPageWidth)
	pf.String("newline", "", MsgFlagNewline)
	pf.String("encoding", "", MsgFlagEncoding)
	pf.String("dialect", "", MsgFlagDialect)
	pf.String("language", "", MsgFlagLanguage)
	pf.Bool("strip-blank-lines", false, MsgFlagStripBlank)
	pf.Bool("force-single-line-comments", false, MsgFlagSingleLine)
	pf.Int("concurrency", 0, MsgFlagConcurrency)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newWriteCmd(g))
	rootCmd.AddCommand(newReadCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newClassifyCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code. Errors
// are rendered to stderr in the selected output format.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		name, _ := rootCmd.PersistentFlags().GetString("format")
		format, ferr := ui.ResolveFormat(name, os.Stderr)
		if ferr != nil {
			format = ui.FormatText
		}
		if r, rerr := ui.NewRenderer(format, os.Stderr); rerr == nil {
			_ = r.RenderError(err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// overrides collects the codec flags set on the command line.
func overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range codecFlags {
		if fl := cmd.Flag(f.flag); fl != nil && fl.Changed {
			out[f.key] = fl.Value.String()
		}
	}
	return out
}

func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{File: g.configFile, Overrides: overrides(cmd)})
}

// codecOptions loads the configuration and builds codec options on the
// real filesystem.
func (g *globalFlags) codecOptions(cmd *cobra.Command) (atfile.Options, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return atfile.Options{}, err
	}
	return cfg.CodecOptions(filesystem.NewOS())
}

func (g *globalFlags) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}
