//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with a window.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed headless for a bounded number of frames, useful as a
// smoke test on machines without a display.
func (Run) Headless() error {
	fmt.Println("Run engine (headless)...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-headless", "-max-frames", "120"), withStream()); err != nil {
		return err
	}
	return nil
}
