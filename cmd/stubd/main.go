// Package main is the entry point for the stubd CLI.
package main

import "github.com/stubd/stubd/pkg/cli"

func main() {
	cli.Execute()
}
