package crawl

import "github.com/beanatlas/beanatlas"

// mostlyEmptyThreshold is the number of core fields that must be missing
// before a candidate record counts as mostly empty.
const mostlyEmptyThreshold = 5

// Metrics summarizes the quality of a bulk extraction run. Metrics are
// derived per run and never persisted; they exist to drive the fallback
// decision gate.
type Metrics struct {
	// EmptyPercentage is the share of candidate records judged mostly empty,
	// 0-100. Zero candidates counts as 100.
	EmptyPercentage float64

	// ExtractionRate is candidate records produced per unique base product
	// expected, 0-100. Roast variants of one product are counted once.
	ExtractionRate float64

	Candidates   int
	MostlyEmpty  int
	BaseProducts int
}

// AssessQuality scores a bulk extraction run against the deduplicated
// base-product count.
func AssessQuality(candidates []*beanatlas.Coffee, baseProducts int) Metrics {
	m := Metrics{
		Candidates:   len(candidates),
		BaseProducts: baseProducts,
	}

	for _, c := range candidates {
		if MostlyEmpty(c) {
			m.MostlyEmpty++
		}
	}

	if m.Candidates == 0 {
		m.EmptyPercentage = 100
	} else {
		m.EmptyPercentage = 100 * float64(m.MostlyEmpty) / float64(m.Candidates)
	}

	if baseProducts <= 0 {
		m.ExtractionRate = 100
	} else {
		m.ExtractionRate = 100 * float64(m.Candidates) / float64(baseProducts)
	}

	return m
}

// MostlyEmpty reports whether a candidate record carries too little data to
// be useful. It counts missing values among seven core fields: name, origin,
// process, variety, tasting notes, price and description. A nil record is
// always mostly empty.
func MostlyEmpty(c *beanatlas.Coffee) bool {
	if c == nil {
		return true
	}

	missing := 0
	for _, field := range []string{c.Name, c.Origin, c.Process, c.Variety, c.Price, c.Description} {
		if field == "" {
			missing++
		}
	}
	if len(c.TastingNotes) == 0 {
		missing++
	}

	return missing >= mostlyEmptyThreshold
}

// GateConfig holds the fallback decision thresholds. The values are policy,
// not law: they were tuned by observation and are kept configurable.
type GateConfig struct {
	// MaxEmptyPercent triggers fallback when EmptyPercentage exceeds it.
	MaxEmptyPercent float64

	// MinExtractionRate triggers fallback when ExtractionRate falls below it.
	MinExtractionRate float64

	// FallbackURLCeiling is a safety valve: per-item fallback never fires
	// for catalogs at or above this many filtered URLs, however poor the
	// bulk results. A large catalog with a low extraction rate is accepted
	// as-is rather than paying for the slow path.
	FallbackURLCeiling int
}

// DefaultGateConfig returns the observed production thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxEmptyPercent:    70,
		MinExtractionRate:  50,
		FallbackURLCeiling: 100,
	}
}

// ShouldFallback decides whether the per-item fallback stage is warranted.
func (g GateConfig) ShouldFallback(m Metrics, totalFilteredURLs int) bool {
	if totalFilteredURLs >= g.FallbackURLCeiling {
		return false
	}
	return m.EmptyPercentage > g.MaxEmptyPercent || m.ExtractionRate < g.MinExtractionRate
}
