//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Cooks the built-in sample characters twice.
func (Run) Demo() error {
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", ".", "demo", "--log-level", "debug"), withStream()); err != nil {
		return err
	}
	return nil
}

// Writes the sample cook to testdata/demo.yaml and cooks it back from disk.
func (Run) Dump() error {
	mg.Deps(Build.Cli)
	if _, err := executeCmd("bin/hengine", withArgs("demo", "--write-dump", "testdata/demo.yaml"), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("bin/hengine", withArgs("cook", "--dump", "testdata/demo.yaml"), withStream())
	return err
}
