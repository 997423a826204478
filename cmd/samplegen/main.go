package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"incident-lens/cmd/samplegen/engine"
	"incident-lens/internal/fallback"
)

func main() {
	profile := flag.String("profile", "steady", "Resolution profile to generate: steady, chaos, drift")
	seed := flag.Int64("seed", fallback.DefaultSeed, "Random seed; equal seeds produce identical exports")
	count := flag.Int("count", fallback.DefaultCount, "Number of incidents to generate")
	anchor := flag.String("anchor", fallback.DefaultAnchor.Format("2006-01-02"), "Last day of the generated window (YYYY-MM-DD)")
	outDir := flag.String("out", "./exports", "Output directory for the sample exports")
	name := flag.String("name", "sample-incidents", "Base file name for the exports")
	flag.Parse()

	at, err := time.Parse("2006-01-02", *anchor)
	if err != nil {
		fmt.Printf("Invalid anchor date %q: %v\n", *anchor, err)
		os.Exit(1)
	}

	cfg := fallback.Config{
		Seed:    *seed,
		Count:   *count,
		Anchor:  at,
		Profile: fallback.Profile(*profile),
	}

	fmt.Printf("Generating profile '%s' (Seed: %d, Count: %d) to %s...\n", cfg.Profile, cfg.Seed, cfg.Count, *outDir)

	records := fallback.Generate(cfg)
	paths, err := engine.Save(*outDir, *name, records)
	if err != nil {
		fmt.Printf("Failed to save sample exports: %v\n", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Println("  " + p)
	}
	fmt.Println("Done.")
}
