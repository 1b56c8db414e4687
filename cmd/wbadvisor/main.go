// Package main provides the entry point for the wbadvisor CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/wbadvisor/cmd/wbadvisor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
