package main

import (
	"fmt"

	"github.com/beanatlas/beanatlas"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	roasters, err := deps.Roasters.FindRoasters(deps.Ctx, beanatlas.RoasterFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	if len(roasters) == 0 {
		fmt.Fprintln(deps.Stdout, "No roasters found. Use 'beanatlas add' to create one.")
		return nil
	}

	counts, err := deps.Coffees.CountCoffeesByRoaster(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	for _, r := range roasters {
		status := "pending"
		if r.Approved {
			status = "approved"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %d coffees\n",
			r.ID, r.Name, r.WebsiteURL, status, counts[r.ID])
	}

	return nil
}
