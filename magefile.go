//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func init() {
	os.Setenv("GO111MODULE", "on")
}

// RunPreCommit updates, clears, and executes all pre-commit hooks
// locally.
//
// Example usage:
//
// ```go
// mage runprecommit
// ```
func RunPreCommit() error {
	if _, err := exec.LookPath("pre-commit"); err != nil {
		return fmt.Errorf("pre-commit is not installed, please install it " +
			"with the following command: `python3 -m pip install pre-commit`")
	}

	fmt.Println(color.YellowString("Updating pre-commit hooks."))
	if err := sh.RunV("pre-commit", "autoupdate"); err != nil {
		return err
	}

	fmt.Println(color.YellowString("Clearing the pre-commit cache to ensure we have a fresh start."))
	if err := sh.RunV("pre-commit", "clean"); err != nil {
		return err
	}

	fmt.Println(color.YellowString("Running all pre-commit hooks locally."))
	return sh.RunV("pre-commit", "run", "--all-files")
}

// Compile compiles the nekobuild binary into bin/.
func Compile() error {
	fmt.Println("Compiling the nekobuild binary, please wait.")
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %v", err)
	}
	if err := sh.RunV("go", "build", "-o", "bin/nekobuild", "./cmd/nekobuild"); err != nil {
		return fmt.Errorf("failed to compile nekobuild: %v", err)
	}

	return nil
}

// RunTests executes all unit tests.
func RunTests() error {
	fmt.Println(color.YellowString("Running unit tests."))
	if err := sh.RunV("go", "test", "-race", "-count=1", "./..."); err != nil {
		return fmt.Errorf("failed to run unit tests: %v", err)
	}

	return nil
}

// GenerateSchema regenerates schema/nekobuild-manifest.json.
func GenerateSchema() error {
	if err := sh.RunV("go", "run", "./cmd/schema-gen", "-o", "schema/nekobuild-manifest.json"); err != nil {
		return fmt.Errorf("failed to generate manifest schema: %v", err)
	}

	return nil
}

// Build runs the tests, then compiles the binary.
func Build() error {
	mg.SerialDeps(RunTests, GenerateSchema, Compile)
	return nil
}

// DeleteReleaseAndTag deletes a GitHub release and its corresponding tag.
//
// Example usage:
//
// ```go
// mage deletereleaseandtag v1.0.5
// ```
func DeleteReleaseAndTag(tag string) error {
	fmt.Println(color.YellowString("Deleting GitHub release and tag:", tag))

	if err := sh.RunV("gh", "release", "delete", tag, "--yes"); err != nil {
		return fmt.Errorf("failed to delete GitHub release: %v", err)
	}

	if err := sh.RunV("git", "tag", "-d", tag); err != nil {
		return fmt.Errorf("failed to delete local tag: %v", err)
	}

	if err := sh.RunV("git", "push", "origin", "--delete", tag); err != nil {
		return fmt.Errorf("failed to delete remote tag: %v", err)
	}

	fmt.Println(color.GreenString("Successfully deleted GitHub release and tag:", tag))
	return nil
}

// CreateRelease creates a new GitHub release and updates the CHANGELOG.
//
// Example usage:
//
// ```go
// mage createrelease v1.0.6
// ```
func CreateRelease(nextVersion string) error {
	fmt.Println(color.YellowString("Creating new GitHub release:", nextVersion))

	if err := sh.RunV("gh", "changelog", "new", "--next-version", nextVersion); err != nil {
		return fmt.Errorf("failed to create changelog: %v", err)
	}

	if err := sh.RunV("gh", "release", "create", nextVersion, "-F", "CHANGELOG.md"); err != nil {
		return fmt.Errorf("failed to create GitHub release: %v", err)
	}

	fmt.Println(color.GreenString("Successfully created GitHub release:", nextVersion))
	return nil
}
