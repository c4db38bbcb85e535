// ABOUTME: Scriptable admin CLI for the XLR mixer appliance
// ABOUTME: Logs in, lists channels, toggles, renames, and reads the change journal

package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := NewRoot().Execute(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}
