package main

import (
	"os"

	"github.com/dshills/suggestmsg/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
