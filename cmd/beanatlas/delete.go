package main

import (
	"fmt"

	"github.com/beanatlas/beanatlas"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return beanatlas.Errorf(beanatlas.EINVALID, "use --force to confirm deletion")
	}

	roaster, err := findRoasterByName(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.Roasters.DeleteRoaster(deps.Ctx, roaster.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted roaster %q\n", roaster.Name)
	return nil
}

// findRoasterByName resolves a roaster by its unique name, printing a
// friendly hint on miss.
func findRoasterByName(deps *Dependencies, name string) (*beanatlas.Roaster, error) {
	roasters, err := deps.Roasters.FindRoasters(deps.Ctx, beanatlas.RoasterFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return nil, err
	}
	if len(roasters) == 0 {
		fmt.Fprintf(deps.Stderr, "error: roaster %q not found. Use 'beanatlas list' to see available roasters.\n", name)
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "roaster %q not found", name)
	}
	return roasters[0], nil
}
