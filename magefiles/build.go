//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the slang shaders to the WGSL the renderer loads at startup.
func (Build) Shaders() error {
	if _, err := executeCmd("slangc",
		withArgs("assets/shaders/model.slang", "-target", "wgsl", "-o", "assets/shaders/model.wgsl"),
		withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy.
func (Build) Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy"), withStream()); err != nil {
		return err
	}
	return nil
}
