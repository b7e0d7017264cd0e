package cli

import (
	"fmt"

	"github.com/arthur-debert/atfile/pkg/commands"
	"github.com/arthur-debert/atfile/pkg/config"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/ui"
	"github.com/arthur-debert/atfile/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// report renders a command result and turns failed files into an error, so
// the process exits non-zero.
func report(r ui.Renderer, result *display.CommandResult) error {
	if err := r.RenderResult(result); err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf(MsgErrFailed, result.Counts()[display.StatusFailed], len(result.Files))
	}
	return nil
}

func newWriteCmd(g *globalFlags) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:     "write <outline> [files...]",
		Short:   MsgWriteShort,
		Long:    MsgWriteLong,
		Example: MsgWriteExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.codecOptions(cmd)
			if err != nil {
				return err
			}
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("outline", args[0]).Strs("files", args[1:]).Bool("save", save).Msg("Writing derived files")
			result, err := commands.WriteFiles(cmd.Context(), commands.WriteFilesOptions{
				Outline: args[0],
				Files:   args[1:],
				Save:    save,
				Codec:   opts,
			})
			if err != nil {
				return fmt.Errorf(MsgErrWrite, err)
			}
			return report(r, result)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, MsgFlagSave)
	return cmd
}

func newReadCmd(g *globalFlags) *cobra.Command {
	var outlinePath string
	cmd := &cobra.Command{
		Use:     "read [files...]",
		Short:   MsgReadShort,
		Long:    MsgReadLong,
		Example: MsgReadExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.codecOptions(cmd)
			if err != nil {
				return err
			}
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("outline", outlinePath).Strs("files", args).Msg("Reading derived files")
			result, err := commands.ReadFiles(cmd.Context(), commands.ReadFilesOptions{
				Outline: outlinePath,
				Files:   args,
				Codec:   opts,
			})
			if err != nil {
				return fmt.Errorf(MsgErrRead, err)
			}
			if outlinePath != "" || result.Result.Failed() {
				return report(r, result.Result)
			}

			// Without an outline the read trees are the output.
			data, err := outline.MarshalYAML(result.Roots)
			if err != nil {
				return fmt.Errorf(MsgErrRead, err)
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			for _, f := range result.Result.Files {
				for _, d := range f.Diagnostics {
					fmt.Fprintln(cmd.ErrOrStderr(), display.FormatDiagnostic(f.Path, d))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outlinePath, "outline", "o", "", MsgFlagOutline)
	return cmd
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:     "check <files...>",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.codecOptions(cmd)
			if err != nil {
				return err
			}
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}

			result, err := commands.CheckFiles(cmd.Context(), commands.CheckFilesOptions{
				Files: args,
				Codec: opts,
			})
			if err != nil {
				return fmt.Errorf(MsgErrCheck, err)
			}
			if !showDiff {
				for i := range result.Files {
					result.Files[i].Diff = ""
				}
			}
			return report(r, result)
		},
	}
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, MsgFlagDiff)
	return cmd
}

func newClassifyCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "classify <file>",
		Short:   MsgClassifyShort,
		Long:    MsgClassifyLong,
		GroupID: "misc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.codecOptions(cmd)
			if err != nil {
				return err
			}
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := commands.ClassifyFile(commands.ClassifyFileOptions{File: args[0], Codec: opts})
			if err != nil {
				return fmt.Errorf(MsgErrClassify, args[0], err)
			}
			return r.RenderResult(result)
		},
	}
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	var defaultsOnly bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaultsOnly {
				_, err := fmt.Fprintf(out, "%s\n%s", MsgDefaultsHeader, config.DefaultsContent())
				return err
			}
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s\n%s", MsgEffectiveConfigNote, data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaultsOnly, "defaults", false, MsgFlagDefaultsOnly)
	return cmd
}
