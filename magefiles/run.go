//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the shaders and runs the sandbox.
func (Run) Sandbox() error {
	mg.Deps(Build.Shaders)
	fmt.Println("Run sandbox...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}
