package main

import (
	"fmt"
	"os"

	"github.com/AlibekovAA/invoice-dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}
