package main

import (
	"fmt"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/crawl"
)

// oracleClientKey identifies this process for oracle-call admission
// control. Crawls from the same database share the same budget.
const oracleClientKey = "oracle"

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.All {
		return c.runAll(deps)
	}
	if c.Name == "" {
		fmt.Fprintf(deps.Stderr, "error: a roaster name or --all is required\n")
		return beanatlas.Errorf(beanatlas.EINVALID, "a roaster name or --all is required")
	}

	roaster, err := findRoasterByName(deps, c.Name)
	if err != nil {
		return err
	}

	if err := admit(deps); err != nil {
		return err
	}

	if c.URL != "" {
		coffee, err := deps.Crawler.CrawlProduct(deps.Ctx, roaster, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
			return err
		}
		printCoffee(deps, coffee, true)
		return nil
	}

	result, err := deps.Crawler.CrawlRoaster(deps.Ctx, roaster)
	printResult(deps, roaster, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	return nil
}

func (c *CrawlCmd) runAll(deps *Dependencies) error {
	if err := admit(deps); err != nil {
		return err
	}

	results, err := deps.Crawler.CrawlAll(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No approved roasters to crawl.")
		return nil
	}

	var saved, failed int
	for _, r := range results {
		saved += r.Saved
		failed += r.Failed
	}
	fmt.Fprintf(deps.Stdout, "Crawled %d roasters: %d saved, %d failed\n",
		len(results), saved, failed)

	return nil
}

// admit checks the shared oracle budget before an oracle-heavy run.
func admit(deps *Dependencies) error {
	ok, err := deps.Limiter.Allow(deps.Ctx, oracleClientKey)
	if err != nil {
		return err
	}
	if !ok {
		status, serr := deps.Limiter.Status(deps.Ctx, oracleClientKey)
		if serr == nil {
			fmt.Fprintf(deps.Stderr, "error: crawl budget exhausted (%d/%d this minute, %d/%d today)\n",
				status.MinuteCount, status.MinuteLimit, status.DayCount, status.DayLimit)
		}
		return beanatlas.Errorf(beanatlas.ERATELIMITED, "crawl budget exhausted")
	}
	return nil
}

func printResult(deps *Dependencies, roaster *beanatlas.Roaster, result *crawl.Result) {
	if result == nil {
		return
	}
	fmt.Fprintf(deps.Stdout, "Crawled %q: %d URLs, %d base products\n",
		roaster.Name, result.URLs, result.BaseProducts)
	if result.UsedFallback {
		fmt.Fprintf(deps.Stdout, "  Quality gate fell back to per-page extraction")
		if result.Fallback != nil && result.Fallback.State == crawl.StateAborted {
			fmt.Fprintf(deps.Stdout, " (aborted: %s)", result.Fallback.AbortReason)
		}
		fmt.Fprintln(deps.Stdout)
	}
	fmt.Fprintf(deps.Stdout, "  Saved %d, failed %d, unchanged %d\n",
		result.Saved, result.Failed, result.Skipped)
}
