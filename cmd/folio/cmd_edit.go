package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"folio/internal/engine"
	"folio/internal/state"
	"folio/internal/types"
)

var (
	setName  string
	setTitle string
	setAbout string

	projectName  string
	projectTech  string
	projectDesc  string
	projectField string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set top-level portfolio fields",
	Example: `  folio set --name "Ada Lovelace" --title "Software Engineer"
  folio set --about "I build things."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			var p state.Partial
			if cmd.Flags().Changed("name") {
				p.Name = &setName
			}
			if cmd.Flags().Changed("title") {
				p.Title = &setTitle
			}
			if cmd.Flags().Changed("about") {
				p.About = &setAbout
			}
			e.State.Update(p)
			return nil
		})
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage the skill list",
}

var skillAddCmd = &cobra.Command{
	Use:   "add [skill]",
	Short: "Add a skill (duplicates and blanks are dropped)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.State.AddSkill(args[0])
			return nil
		})
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove [skill]",
	Short: "Remove a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.State.RemoveSkill(args[0])
			return nil
		})
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project from its draft fields",
	Example: `  folio project add --name "Chat App" --tech "Go, WebSocket" --desc "Realtime chat"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.State.AddProject(types.ProjectDraft{
				Name:         projectName,
				Technologies: projectTech,
				Description:  projectDesc,
			})
			return nil
		})
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove [index]",
	Short: "Remove the project at the given zero-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be a number: %q", args[0])
		}
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.State.RemoveProject(idx)
			return nil
		})
	},
}

var projectSetCmd = &cobra.Command{
	Use:   "set [index] [value]",
	Short: "Set one field of the project at the given index",
	Long:  `Fields: name, technologies (comma-separated), description.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be a number: %q", args[0])
		}
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.State.UpdateProject(idx, projectField, args[1])
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current portfolio as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(e.State.Snapshot())
		})
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the portfolio locally and to the backend if configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *engine.Engine) error {
			return e.Save(ctx)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored snapshot and start over",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			e.Back()
			return e.Local.ClearSnapshot()
		})
	},
}

func init() {
	setCmd.Flags().StringVar(&setName, "name", "", "portfolio owner name")
	setCmd.Flags().StringVar(&setTitle, "title", "", "professional title")
	setCmd.Flags().StringVar(&setAbout, "about", "", "about section text")

	projectAddCmd.Flags().StringVar(&projectName, "name", "", "project name")
	projectAddCmd.Flags().StringVar(&projectTech, "tech", "", "comma-separated technologies")
	projectAddCmd.Flags().StringVar(&projectDesc, "desc", "", "project description")
	projectSetCmd.Flags().StringVar(&projectField, "field", "description", "field to set: name, technologies, description")

	skillCmd.AddCommand(skillAddCmd, skillRemoveCmd)
	projectCmd.AddCommand(projectAddCmd, projectRemoveCmd, projectSetCmd)
	rootCmd.AddCommand(setCmd, skillCmd, projectCmd, showCmd, saveCmd, resetCmd)
}
