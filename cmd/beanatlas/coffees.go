package main

import (
	"fmt"
	"strings"

	"github.com/beanatlas/beanatlas"
)

// Run executes the coffees command.
func (c *CoffeesCmd) Run(deps *Dependencies) error {
	roaster, err := findRoasterByName(deps, c.Name)
	if err != nil {
		return err
	}

	filter := beanatlas.CoffeeFilter{RoasterID: &roaster.ID}
	if c.Status != "" {
		filter.Status = &c.Status
	}

	coffees, err := deps.Coffees.FindCoffees(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	if len(coffees) == 0 {
		fmt.Fprintf(deps.Stdout, "No coffees found for %q.\n", roaster.Name)
		return nil
	}

	for _, coffee := range coffees {
		printCoffee(deps, coffee, c.Full)
	}

	return nil
}

// printCoffee writes one record, either as a single summary line or as a
// full field listing.
func printCoffee(deps *Dependencies, coffee *beanatlas.Coffee, full bool) {
	if !full {
		fmt.Fprintf(deps.Stdout, "%s  %-30s  %-15s  %s\n",
			coffee.ID, coffee.Name, coffee.Origin, coffee.Status)
		return
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", coffee.Name, coffee.ID)
	fields := []struct{ label, value string }{
		{"Origin", coffee.Origin},
		{"Region", coffee.Region},
		{"Process", coffee.Process},
		{"Producer", coffee.Producer},
		{"Variety", coffee.Variety},
		{"Altitude", coffee.Altitude},
		{"Tasting notes", strings.Join(coffee.TastingNotes, ", ")},
		{"Price", coffee.Price},
		{"Description", coffee.Description},
		{"URL", coffee.SourceURL},
		{"Status", coffee.Status},
		{"Status message", coffee.StatusMessage},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-15s %s\n", f.label+":", f.value)
	}
}
