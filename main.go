package main

import (
	"os"

	"github.com/keskad/printsink/pkgs/app"
	"github.com/keskad/printsink/pkgs/cli"
)

func main() {
	app := app.PrintApp{}
	cmd := cli.NewRootCommand(&app)
	args := os.Args
	if args != nil {
		args = args[1:]
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
