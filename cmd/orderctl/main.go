package main

import (
	"os"

	"github.com/jhoicas/erp-fulfillment/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
