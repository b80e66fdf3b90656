package domain

import (
	"errors"
	"strings"
)

// UnknownAddress replaces an absent, null, or blank street address.
const UnknownAddress = "Okänd adress"

// swedishChars are the diacritic letters the encoding smoke test looks for.
const swedishChars = "åäöÅÄÖ"

// ErrMissingGeometry marks a raw feature without usable coordinates. Such
// records are skipped, not fatal, and do not consume an output index.
var ErrMissingGeometry = errors.New("shelter record has no geometry")

// NormalizeShelter converts one raw feature into the output schema.
//
// index is the feature's position in the output sequence, 0-based and
// re-numbered after skips. The Skyddsrumsnr attribute looks like the
// intended stable key, but the map app has always received the positional
// index, so the identifier is decoded and then deliberately unused.
//
// extractedOn is the run's date stamp, shared by every feature.
func NormalizeShelter(raw RawShelter, index int, extractedOn string) (ShelterFeature, error) {
	if !raw.HasGeometry() {
		return ShelterFeature{}, ErrMissingGeometry
	}

	return ShelterFeature{
		Type: "Feature",
		Geometry: PointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{*raw.Geometry.X, *raw.Geometry.Y},
		},
		Properties: ShelterProperties{
			RoomNr:      index,
			Places:      normalizeCapacity(raw.Attributes.AntalPlatser),
			Address:     normalizeAddress(raw.Attributes.Gatuadress),
			ExtractedOn: extractedOn,
		},
	}, nil
}

// normalizeCapacity defaults null/missing capacity to 0 and truncates to an
// integer. Upstream data never carries negative capacities, but the output
// contract is plasser >= 0, so negatives clamp to 0.
func normalizeCapacity(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(*v)
}

// normalizeAddress trims surrounding whitespace and substitutes the fixed
// placeholder when nothing usable remains.
func normalizeAddress(v *string) string {
	if v == nil {
		return UnknownAddress
	}
	addr := strings.TrimSpace(*v)
	if addr == "" {
		return UnknownAddress
	}
	return addr
}

// HasSwedishChars reports whether s contains any of å, ä, ö in either case.
func HasSwedishChars(s string) bool {
	return strings.ContainsAny(s, swedishChars)
}
