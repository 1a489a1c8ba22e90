package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"universal-portfolio/internal/data"
)

// update-prices mirrors remote price files into a local data directory so
// the file data source and the CLI can use them.
func main() {
	var (
		baseURL = flag.String("base-url", os.Getenv("PRICE_SOURCE_URL"), "Price source base URL (serves {asset}.txt)")
		assets  = flag.String("assets", "", "Comma-separated asset names")
		outDir  = flag.String("out", "", "Output directory (default: $DATA_DIR or ./examples/data)")
		timeout = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	)
	flag.Parse()

	if *baseURL == "" {
		log.Fatal("--base-url or PRICE_SOURCE_URL is required")
	}
	names := splitList(*assets)
	if len(names) == 0 {
		log.Fatal("--assets is required")
	}
	if *outDir == "" {
		*outDir = os.Getenv("DATA_DIR")
	}
	if *outDir == "" {
		*outDir = "./examples/data"
	}

	client := data.NewPriceClient(os.Getenv("PRICE_API_KEY"), *baseURL)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Updating %d assets from %s\n", len(names), *baseURL)
	ok := 0
	for _, name := range names {
		prices, err := client.FetchPrices(ctx, name)
		if err != nil {
			fmt.Printf("  warning: failed to fetch %s: %v\n", name, err)
			continue
		}
		path := filepath.Join(*outDir, name+".txt")
		if err := data.SavePriceFile(path, prices); err != nil {
			log.Fatalf("Failed to save %s: %v", name, err)
		}
		ok++
		fmt.Printf("  updated: %s (%d prices)\n", name, len(prices))
	}

	fmt.Printf("Successfully updated %d/%d assets in %s\n", ok, len(names), *outDir)
	if ok < len(names) {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
