// Package beanatlas provides an adaptive crawler for specialty coffee
// catalogs. It discovers product URLs from roaster sitemaps, extracts
// structured coffee records with a cheap bulk LLM pass, statistically judges
// the quality of that pass, and falls back to a per-URL render-then-extract
// pass when the bulk results are too thin.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, rod/).
package beanatlas
