package main

import (
	"fmt"
	"os"

	"github.com/stitcherio/urlvisits/cli"
)

func main() {
	if err := cli.App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "urlvisits:", err)
		os.Exit(1)
	}
}
