package main

import (
	"fmt"

	"github.com/beanatlas/beanatlas"
)

// Run executes the retry command.
func (c *RetryCmd) Run(deps *Dependencies) error {
	roaster, err := findRoasterByName(deps, c.Name)
	if err != nil {
		return err
	}

	if err := admit(deps); err != nil {
		return err
	}

	result, err := deps.Crawler.RetryFailed(deps.Ctx, roaster)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	if result.Attempted == 0 {
		fmt.Fprintf(deps.Stdout, "No failed records for %q.\n", roaster.Name)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Retried %d failed records, recovered %d\n",
		result.Attempted, result.Recovered)
	return nil
}
