package main

import (
	"fmt"
	"regexp"

	"github.com/beanatlas/beanatlas"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	// Compile filters to URLFilter (validates regex patterns early)
	urlFilter := beanatlas.ProductURLFilter()
	if len(c.Filter) > 0 {
		urlFilter = &beanatlas.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	// Preview mode: show discovered product URLs without creating the roaster
	if c.Preview {
		base := c.Sitemap
		if base == "" {
			base = c.URL
		}
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, base, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	roaster := &beanatlas.Roaster{
		Name:       c.Name,
		WebsiteURL: c.URL,
		SitemapURL: c.Sitemap,
		Approved:   c.Approve,
	}

	if err := deps.Roasters.CreateRoaster(deps.Ctx, roaster); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added roaster %q (%s)\n", c.Name, roaster.ID)
	if !c.Approve {
		fmt.Fprintln(deps.Stdout, "Roaster is not approved; approve it before crawling with --all.")
	}

	return nil
}
