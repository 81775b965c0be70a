package main

import (
	"context"
	"io"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/crawl"
	"github.com/beanatlas/beanatlas/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Roasters beanatlas.RoasterService
	Coffees  beanatlas.CoffeeService
	Sitemaps beanatlas.SitemapService
	Limiter  beanatlas.RateLimiter
	Crawler  *crawl.Crawler
	Geocoder beanatlas.GeocodeService
	Geocodes beanatlas.GeocodeCache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Add     AddCmd     `cmd:"" help:"Register a roaster"`
	List    ListCmd    `cmd:"" help:"List all registered roasters"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a roaster's catalog"`
	Retry   RetryCmd   `cmd:"" help:"Re-crawl a roaster's failed records"`
	Coffees CoffeesCmd `cmd:"" help:"List extracted coffees for a roaster"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a roaster and its coffees"`
	Geocode GeocodeCmd `cmd:"" help:"Resolve a coffee origin to coordinates"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name    string   `arg:"" help:"Roaster name"`
	URL     string   `arg:"" help:"Roaster website URL"`
	Sitemap string   `short:"s" help:"Explicit sitemap URL (overrides discovery from the website URL)"`
	Approve bool     `short:"a" help:"Approve the roaster for crawling"`
	Preview bool     `short:"p" help:"Show discovered product URLs without creating the roaster"`
	Filter  []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Name        string `arg:"" optional:"" help:"Roaster name"`
	All         bool   `help:"Crawl every approved roaster"`
	URL         string `short:"u" help:"Crawl a single product URL for the roaster"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent roaster crawl limit (with --all)"`
}

// RetryCmd is the "retry" subcommand.
type RetryCmd struct {
	Name string `arg:"" help:"Roaster name"`
}

// CoffeesCmd is the "coffees" subcommand.
type CoffeesCmd struct {
	Name   string `arg:"" help:"Roaster name"`
	Status string `help:"Filter by status (done or error)"`
	Full   bool   `help:"Show full record details"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Roaster name"`
	Force bool   `help:"Confirm deletion"`
}

// GeocodeCmd is the "geocode" subcommand. Debug helper for the resolver
// chain; with --lat and --lon it seeds the cache with known-good
// coordinates instead of resolving.
type GeocodeCmd struct {
	Location string   `arg:"" optional:"" help:"Origin location name"`
	Country  string   `help:"Country the location belongs to"`
	Region   string   `help:"Region within the country"`
	Lat      *float64 `help:"Seed the cache with this latitude (with --lon)"`
	Lon      *float64 `help:"Seed the cache with this longitude (with --lat)"`
}
