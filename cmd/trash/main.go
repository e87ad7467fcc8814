package main

import (
	"os"

	"github.com/trash-go/trash/internal/cli"
)

const appName = "trash"

var (
	version   = "develop"
	revision  = "HEAD"
	buildDate = "unknown"
)

func main() {
	os.Exit(cli.Run(cli.Version{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}))
}
