// The main package for the fixtures executable.
package main

import (
	"github.com/aydinaksel/clive-fixtures/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
