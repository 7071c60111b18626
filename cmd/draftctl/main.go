package main

import (
	"os"

	"github.com/SscSPs/journal_draft_app/cmd/draftctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
