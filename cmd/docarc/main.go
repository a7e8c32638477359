package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/docarc/internal/cmd"
	"github.com/nguyengg/docarc/internal/config"
)

var opts struct {
	Profile string      `short:"p" long:"profile" description:"override the AWS profile used to read S3 objects"`
	Extract cmd.Extract `command:"extract" alias:"x" description:"extract the text of archives and their nested archives as XHTML"`
	List    cmd.List    `command:"list" alias:"ls" description:"list the entries of archives"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		if _, err := config.LoadProfile(context.Background(), opts.Profile); err != nil {
			return fmt.Errorf("load config error: %w", err)
		}

		return command.Execute(args)
	}

	_, err := p.Parse()
	exit(err)
}

// exitCode returns 2 for command line errors, 1 if the command failed, and 0 otherwise.
func exitCode(err error) int {
	var ferr *flags.Error

	switch {
	case err == nil, flags.WroteHelp(err):
		return 0
	case errors.As(err, &ferr):
		return 2
	default:
		return 1
	}
}
