// Package main is the entry point for the mutiny CLI.
package main

import "mutiny.dev/pkg/mutiny/cmd"

func main() {
	cmd.Execute()
}
