package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Metamath Prelude project",
		Long: `Initialize a new project with a configuration file and a scripts directory.

This creates:
  - prelude.yaml configuration file
  - scripts/ directory with a starter module
  - .gitignore for build output and state

Use --example to create several modules covering propositional and
first-order authoring.`,
		Example: `  # Initialize in current directory
  prelude init

  # Initialize with example modules
  prelude init --example

  # Initialize in a new directory
  prelude init my-logic --example

  # Force overwrite existing files
  prelude init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(NewCommandContext(cmd, ""), dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create example modules")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir, template string, force bool) error {
	r := cmdCtx.Renderer
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "prelude.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("prelude.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	cmdCtx.Logger.Debug("project initialized", "dir", dir, "template", template)

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "created", "")
	}
	r.Println("")
	r.Header(2, "Scripts")
	for _, f := range groups["scripts"] {
		r.StatusLine(f, "created", "")
	}

	r.Println("")
	r.Success("Metamath Prelude project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  prelude build     Evaluate scripts/ and write .mm files to build/")
	r.Println("  prelude rules     List the Hilbert rules available to scripts")
	r.Println("  prelude repl      Explore formulas interactively")
	return nil
}
