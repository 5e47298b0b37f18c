// Package main is the entry point for the oressource-auth binary.
package main

import (
	"os"

	"github.com/oressource/auth-client-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
