// Package main provides the strata CLI.
package main

import "github.com/dukaforge/strata/internal/cli"

func main() {
	cli.Execute()
}
