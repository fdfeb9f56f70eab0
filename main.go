// The main package for the lexharvest executable.
package main

import (
	"github.com/lexharvest/lexharvest/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
