package fallback

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"incident-lens/internal/incident"
)

const (
	DefaultSeed  int64 = 42
	DefaultCount       = 150
)

// DefaultAnchor is the fixed "now" sample data is generated against.
var DefaultAnchor = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// Profile shapes the resolution-time distribution.
type Profile string

const (
	ProfileSteady Profile = "steady" // tight resolution times
	ProfileChaos  Profile = "chaos"  // heavy tail
	ProfileDrift  Profile = "drift"  // resolution times grow over the window
)

// Config controls sample generation. Zero fields take the defaults.
type Config struct {
	Seed       int64
	Anchor     time.Time
	Count      int
	Profile    Profile
	SLATargets map[incident.Severity]float64
}

func (c Config) withDefaults() Config {
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Anchor.IsZero() {
		c.Anchor = DefaultAnchor
	}
	c.Anchor = c.Anchor.UTC()
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	switch c.Profile {
	case ProfileSteady, ProfileChaos, ProfileDrift:
	default:
		c.Profile = ProfileSteady
	}
	if len(c.SLATargets) == 0 {
		c.SLATargets = incident.DefaultSLATargets()
	}
	return c
}

// Fingerprint identifies the generated data set; equal fingerprints yield
// identical records.
func (c Config) Fingerprint() string {
	c = c.withDefaults()
	return fmt.Sprintf("sample:seed=%d:anchor=%s:count=%d:profile=%s",
		c.Seed, c.Anchor.Format(time.RFC3339), c.Count, c.Profile)
}

// severityMix is the cumulative weight of Critical..Low.
var severityMix = []int{8, 30, 70, 100}

// scaleHours is the Weibull scale in hours per severity.
var scaleHours = map[incident.Severity]float64{
	incident.SeverityCritical: 4,
	incident.SeverityHigh:     20,
	incident.SeverityMedium:   60,
	incident.SeverityLow:      140,
}

// Generate builds a deterministic sample set: the same Config always yields
// the same records. Arrivals are spread roughly one per day ending at the
// anchor; records whose sampled resolution lands after the anchor are still
// open.
func Generate(cfg Config) []incident.Record {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	catalog := DefaultCatalog()

	records := make([]incident.Record, 0, cfg.Count)
	firstArrival := cfg.Anchor.AddDate(0, 0, -cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		jitter := time.Duration(rng.Intn(24*60)) * time.Minute
		opened := firstArrival.Add(time.Duration(i*24)*time.Hour + jitter)

		severity := pickSeverity(rng)
		category := pickWeighted(rng, catalog.CategoryOrder, catalog.CategoryWeights)
		subs := catalog.Categories[category]
		sub := subs[rng.Intn(len(subs))]
		source := catalog.Sources[rng.Intn(len(catalog.Sources))]

		rec := incident.Record{
			ID:              fmt.Sprintf("INC%07d", 10001+i),
			Title:           fmt.Sprintf("%s %s degradation", category, sub),
			Description:     fmt.Sprintf("%s problem reported via %s", sub, source),
			OpenedDate:      incident.TimePtr(opened),
			Severity:        severity,
			Priority:        priorityFor(rng, severity),
			Category:        category,
			Subcategory:     sub,
			Source:          source,
			LineOfBusiness:  catalog.LinesOfBusiness[rng.Intn(len(catalog.LinesOfBusiness))],
			AssignmentGroup: catalog.AssignmentGroups[category],
		}

		hours := sampleHours(rng, cfg.Profile, severity, float64(i)/float64(cfg.Count))
		resolved := opened.Add(time.Duration(hours * float64(time.Hour)))

		if !resolved.After(cfg.Anchor) {
			rec.Status = incident.StatusResolved
			if rng.Float64() < 0.3 {
				rec.Status = incident.StatusClosed
			}
			rec.ResolvedDate = incident.TimePtr(resolved)
			rec.ResolutionTimeHours = incident.FloatPtr(hours)
			rec.RootCause = catalog.RootCauses[rng.Intn(len(catalog.RootCauses))]
			rec.SLAMet = incident.BoolPtr(hours <= cfg.SLATargets[severity])
			rec.ReopenCount = sampleReopens(rng)
		} else {
			// Progress through the sampled lifetime decides how far along it is.
			age := cfg.Anchor.Sub(opened).Hours()
			rec.Status = incident.StatusOpen
			if age/hours >= 0.25 {
				rec.Status = incident.StatusInProgress
			}
		}

		records = append(records, rec)
	}

	return records
}

func pickSeverity(rng *rand.Rand) incident.Severity {
	roll := rng.Intn(100)
	for i, cum := range severityMix {
		if roll < cum {
			return incident.Severities[i]
		}
	}
	return incident.SeverityLow
}

func pickWeighted(rng *rand.Rand, values []string, weights []int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := rng.Intn(total)
	for i, w := range weights {
		if roll < w {
			return values[i]
		}
		roll -= w
	}
	return values[len(values)-1]
}

// priorityFor mostly mirrors severity, occasionally one step off.
func priorityFor(rng *rand.Rand, sev incident.Severity) int {
	p := sev.Ordinal()
	switch r := rng.Float64(); {
	case r < 0.1 && p > 1:
		p--
	case r > 0.9 && p < 4:
		p++
	}
	return p
}

func sampleHours(rng *rand.Rand, profile Profile, sev incident.Severity, progress float64) float64 {
	k, lambda := 1.8, scaleHours[sev]
	switch profile {
	case ProfileChaos:
		k = 0.8
	case ProfileDrift:
		k = 1.8 - 0.9*progress
		lambda *= 1 + progress
	}

	h := weibullSample(rng, k, lambda)
	h = math.Round(h*10) / 10
	if h < 0.1 {
		h = 0.1
	}
	return h
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func sampleReopens(rng *rand.Rand) int {
	switch r := rng.Float64(); {
	case r < 0.02:
		return 2
	case r < 0.10:
		return 1
	}
	return 0
}
