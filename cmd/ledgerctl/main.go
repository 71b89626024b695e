package main

import (
	"fmt"
	"os"

	"github.com/kaixxz/MediNote/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.Open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerctl:", err)
		os.Exit(1)
	}
}
