package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/engine"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Watch   bool
	NoState bool
	Stdout  bool
	Format  string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build Metamath databases from the build scripts",
		Long: `Run every *.star script in the scripts directory and write one
Metamath database per script to the output directory.

Scripts run concurrently, each in its own session. When the scripts
directory holds no scripts, the built-in prelude is written instead.
Every build is recorded in the state database unless --no-state is set.`,
		Example: `  # Build all scripts
  prelude build

  # Rebuild on every script change
  prelude build --watch

  # Print the databases instead of writing files
  prelude build --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild when scripts change")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "Do not record the build in the state database")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print databases to stdout instead of writing files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *state.Store
	if !opts.NoState {
		s, cleanup, err := cmdCtx.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		store = s
	}

	outDir := cfg.OutDir
	if opts.Stdout {
		outDir = ""
	}
	eng, err := engine.New(engine.Config{
		ScriptsDir:     cfg.ScriptsDir,
		OutDir:         outDir,
		Origin:         cfg.Origin,
		BuiltinsOrigin: cfg.BuiltinsOrigin,
		Concurrency:    cfg.Concurrency,
		Store:          store,
		Logger:         cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	res, err := eng.Build(ctx)
	if res != nil {
		if rerr := renderBuild(r, res, opts.Stdout); rerr != nil {
			return rerr
		}
	}
	if !opts.Watch {
		return err
	}
	if err != nil {
		r.Error(err.Error())
	}

	r.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", eng.ScriptsDir()))
	return eng.Watch(ctx, watchHandler(r, cmdCtx.Logger, opts.Stdout))
}

// watchHandler renders each rebuild. Errors are reported and never stop
// the watch loop.
func watchHandler(r *output.Renderer, logger *slog.Logger, stdout bool) func(*engine.Result, error) {
	return func(res *engine.Result, err error) {
		if res != nil {
			if rerr := renderBuild(r, res, stdout); rerr != nil {
				logger.Error("failed to render build", "build_id", res.BuildID, "error", rerr)
			}
		}
		if err != nil {
			r.Error(err.Error())
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func renderBuild(r *output.Renderer, res *engine.Result, stdout bool) error {
	if ok, err := r.Structured(res); ok {
		return err
	}

	if stdout {
		for _, m := range res.Modules {
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatHeader(2, m.Name))
				r.Println("")
				r.Println(output.FormatCodeBlock("", m.DB.String()))
				r.Println("")
				continue
			}
			r.Printf("%s", m.DB.String())
		}
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Build"))
		r.Println("")
		if res.BuildID != "" {
			r.Println(output.FormatKeyValue("Build", res.BuildID))
		}
		r.Println(output.FormatKeyValue("Status", string(res.Status)))
		r.Println(output.FormatKeyValue("Modules", strconv.Itoa(len(res.Modules))))
		r.Println(output.FormatKeyValue("Duration", res.Duration.Round(time.Millisecond).String()))
		if res.Error != "" {
			r.Println(output.FormatKeyValue("Error", res.Error))
		}
		if len(res.Modules) > 0 {
			r.Println("")
			r.Table([]string{"Module", "Statements", "Exports", "Output"}, moduleRows(res.Modules))
		}
		return nil
	}

	for _, m := range res.Modules {
		r.StatusLine(m.Name, "success", fmt.Sprintf("(%d statements) %s", m.Statements, m.Output))
	}
	switch res.Status {
	case state.BuildSuccess:
		msg := fmt.Sprintf("Built %d module(s) in %s", len(res.Modules), res.Duration.Round(time.Millisecond))
		if res.Builtin {
			msg += " (built-in prelude)"
		}
		r.Success(msg)
	default:
		r.Error("Build failed")
	}
	return nil
}

func moduleRows(mods []engine.Module) [][]string {
	rows := make([][]string, len(mods))
	for i, m := range mods {
		rows[i] = []string{m.Name, strconv.Itoa(m.Statements), strconv.Itoa(len(m.Exports)), m.Output}
	}
	return rows
}
