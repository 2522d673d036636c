// Package main is the entry point for the clargen CLI.
package main

import "clar.dev/pkg/clargen/cmd"

func main() {
	cmd.Execute()
}
