package main

import "fmt"

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	urls, err := deps.Source.Discover(deps.Ctx)
	if err != nil {
		return report(deps.Stderr, err)
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	fmt.Fprintf(deps.Stderr, "Found %d project URLs\n", len(urls))

	return nil
}
