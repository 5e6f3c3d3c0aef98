package main

import (
	"fmt"

	"github.com/fwojciec/dartex"
)

// Run executes the items command.
func (c *ItemsCmd) Run(deps *Dependencies) error {
	items, err := dartex.ParseItems(c.ItemsToExtract)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	for _, item := range items {
		fmt.Fprintln(deps.Stdout, item.Key())
	}
	return nil
}
