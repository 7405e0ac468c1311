package cli

import (
	"github.com/keskad/printsink/pkgs/app"
	"github.com/spf13/cobra"
)

func NewRootCommand(app *app.PrintApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "prn",
		Short: "Emulated printer port that turns a byte stream into a text file",
		RunE: func(command *cobra.Command, args []string) error {
			return command.Help()
		},
	}

	command.AddCommand(NewPrintCommand(app))
	command.AddCommand(NewPathCommand(app))

	return command
}
