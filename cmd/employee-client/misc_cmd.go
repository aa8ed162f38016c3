package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/service"
	"github.com/noah-isme/employee-admin-client/internal/tui"
)

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour scheme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				mode models.ThemeMode
				err  error
			)
			switch {
			case len(args) == 0:
				mode, err = c.app.theme.Get(ctx)
			case strings.EqualFold(args[0], "toggle"):
				mode, err = c.app.theme.Toggle(ctx)
			default:
				mode = models.ThemeMode(strings.ToLower(args[0]))
				err = c.app.theme.Set(ctx, mode)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mode)
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		flags  listFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one page of employees to a CSV, PDF or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(models.User) error {
				snap, err := flags.load(cmd, c.app.list)
				if err != nil {
					return err
				}
				path, err := c.app.exports.Export(cmd.Context(), format, snap.Items, snap.State)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d employees to %s\n", len(snap.Items), path)
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", service.ExportCSV, "csv, pdf or xlsx")
	return cmd
}

func (c *cli) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive employee browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mode, err := c.app.theme.Get(ctx)
			if err != nil {
				mode = models.ThemeLight
			}
			model := tui.New(ctx, tui.Deps{
				Gate:          c.app.gate,
				Auth:          c.app.auth,
				Session:       c.app.session,
				List:          c.app.list,
				Mutations:     c.app.mutations,
				Notifications: c.app.notes,
				Theme:         c.app.theme,
				Exports:       c.app.queue,
			}, mode)
			defer model.Close()

			c.app.queue.Start(ctx)

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = program.Run()
			if err != nil && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
