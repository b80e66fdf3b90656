// Command validate performs integrity checks on a written shelter GeoJSON
// file: document envelope, feature schema, property invariants, and
// character encoding. It is stricter than the encoding smoke test the ETL
// run performs, and exists so a refreshed file can be checked before it is
// committed to the map app repository.
//
// Usage:
//
//	go run ./cmd/validate -file sweden_shelters.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/adapter/geojson"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "sweden_shelters.json", "path to the shelter GeoJSON file")
	flag.Parse()

	os.Exit(run(*file))
}

func run(path string) int {
	fmt.Println("=== Shelter Data Integrity Validation ===")
	fmt.Println()

	col, err := geojson.ReadCollection(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: re-read file: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateEnvelope(col),
		validateFeatures(col),
		validateEncoding(string(content)),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Features: %d\n", len(col.Features))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}

// validateEnvelope checks the fixed document wrapper.
func validateEnvelope(col domain.ShelterCollection) *phase {
	p := &phase{name: "Phase 1: Document envelope"}

	if col.Type != "FeatureCollection" {
		p.errorf("type is %q, expected \"FeatureCollection\"", col.Type)
	}
	if col.Name != domain.CollectionName {
		p.errorf("name is %q, expected %q", col.Name, domain.CollectionName)
	}
	if len(col.Features) == 0 {
		p.errorf("features list is empty")
	}
	return p
}

// validateFeatures checks per-feature schema and the cross-feature
// invariants: positional romnr, uniform date stamp, non-negative capacity.
func validateFeatures(col domain.ShelterCollection) *phase {
	p := &phase{name: "Phase 2: Feature schema"}

	var runDate string
	for i, f := range col.Features {
		if f.Type != "Feature" {
			p.errorf("feature %d: type is %q", i, f.Type)
		}
		if f.Geometry.Type != "Point" {
			p.errorf("feature %d: geometry type is %q", i, f.Geometry.Type)
		}

		props := f.Properties
		if props.RoomNr != i {
			p.errorf("feature %d: romnr is %d, numbering must be positional", i, props.RoomNr)
		}
		if props.Places < 0 {
			p.errorf("feature %d: plasser is %d", i, props.Places)
		}
		if props.Address == "" {
			p.errorf("feature %d: adresse is empty", i)
		}

		if _, err := time.Parse("2006-01-02", props.ExtractedOn); err != nil {
			p.errorf("feature %d: datauttaksdato %q is not a YYYY-MM-DD date", i, props.ExtractedOn)
		} else if runDate == "" {
			runDate = props.ExtractedOn
		} else if props.ExtractedOn != runDate {
			p.errorf("feature %d: datauttaksdato %q differs from %q, must be identical for one run", i, props.ExtractedOn, runDate)
		}
	}
	return p
}

// validateEncoding confirms Swedish characters survived serialization as
// literal UTF-8.
func validateEncoding(content string) *phase {
	p := &phase{name: "Phase 3: Character encoding"}

	if !domain.HasSwedishChars(content) {
		p.errorf("no Swedish characters (åäöÅÄÖ) anywhere in the file")
	}
	lower := strings.ToLower(content)
	for _, esc := range []string{`\u00e5`, `\u00e4`, `\u00f6`, `\u00c5`, `\u00c4`, `\u00d6`} {
		if strings.Contains(lower, esc) {
			p.errorf("file contains numeric escape %s instead of a literal character", esc)
		}
	}
	return p
}

