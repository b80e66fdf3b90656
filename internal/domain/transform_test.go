package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func geom(x, y float64) *domain.RawGeometry {
	return &domain.RawGeometry{X: &x, Y: &y}
}

func TestNormalizeShelter_FullRecord(t *testing.T) {
	raw := domain.RawShelter{
		Attributes: domain.ShelterAttributes{
			Gatuadress:   strPtr("Storgatan 5"),
			AntalPlatser: numPtr(40),
			Skyddsrumsnr: strPtr("123456-7"),
			Kommunnamn:   strPtr("Stockholm"),
		},
		Geometry: geom(18.07, 59.33),
	}

	f, err := domain.NormalizeShelter(raw, 3, "2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, [2]float64{18.07, 59.33}, f.Geometry.Coordinates)
	assert.Equal(t, 3, f.Properties.RoomNr, "romnr is positional, not Skyddsrumsnr")
	assert.Equal(t, 40, f.Properties.Places)
	assert.Equal(t, "Storgatan 5", f.Properties.Address)
	assert.Equal(t, "2026-08-29", f.Properties.ExtractedOn)
}

func TestNormalizeShelter_NullCapacityAndAddress(t *testing.T) {
	raw := domain.RawShelter{Geometry: geom(13.0, 55.6)}

	f, err := domain.NormalizeShelter(raw, 0, "2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, 0, f.Properties.Places)
	assert.Equal(t, domain.UnknownAddress, f.Properties.Address)
}

func TestNormalizeShelter_AddressTrimming(t *testing.T) {
	cases := []struct {
		name    string
		address *string
		want    string
	}{
		{"surrounding whitespace", strPtr("  Södra Vägen 12 \t"), "Södra Vägen 12"},
		{"blank", strPtr("   "), domain.UnknownAddress},
		{"empty", strPtr(""), domain.UnknownAddress},
		{"nil", nil, domain.UnknownAddress},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := domain.RawShelter{
				Attributes: domain.ShelterAttributes{Gatuadress: tc.address},
				Geometry:   geom(11.97, 57.71),
			}
			f, err := domain.NormalizeShelter(raw, 0, "2026-08-29")
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Properties.Address)
		})
	}
}

func TestNormalizeShelter_CapacityCoercion(t *testing.T) {
	cases := []struct {
		name     string
		capacity *float64
		want     int
	}{
		{"whole number", numPtr(120), 120},
		{"fractional truncates", numPtr(80.9), 80},
		{"zero", numPtr(0), 0},
		{"negative clamps", numPtr(-5), 0},
		{"nil", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := domain.RawShelter{
				Attributes: domain.ShelterAttributes{AntalPlatser: tc.capacity},
				Geometry:   geom(15.6, 58.4),
			}
			f, err := domain.NormalizeShelter(raw, 0, "2026-08-29")
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Properties.Places)
			assert.GreaterOrEqual(t, f.Properties.Places, 0)
		})
	}
}

func TestNormalizeShelter_MissingGeometry(t *testing.T) {
	x := 18.07
	cases := []struct {
		name string
		geom *domain.RawGeometry
	}{
		{"nil geometry", nil},
		{"missing both", &domain.RawGeometry{}},
		{"missing y", &domain.RawGeometry{X: &x}},
		{"missing x", &domain.RawGeometry{Y: &x}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := domain.RawShelter{Geometry: tc.geom}
			_, err := domain.NormalizeShelter(raw, 0, "2026-08-29")
			assert.ErrorIs(t, err, domain.ErrMissingGeometry)
		})
	}
}

func TestExtractionDate_UsesInjectedClock(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.August, 29, 14, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	assert.Equal(t, "2026-08-29", domain.ExtractionDate())
}

func TestHasSwedishChars(t *testing.T) {
	assert.True(t, domain.HasSwedishChars("Västra Frölunda"))
	assert.True(t, domain.HasSwedishChars("ÅKERGATAN"))
	assert.True(t, domain.HasSwedishChars(domain.UnknownAddress), "placeholder contains ä and is tallied")
	assert.False(t, domain.HasSwedishChars("Storgatan 5"))
	assert.False(t, domain.HasSwedishChars(""))
}

func TestNewShelterCollection(t *testing.T) {
	col := domain.NewShelterCollection([]domain.ShelterFeature{{Type: "Feature"}})

	assert.Equal(t, "FeatureCollection", col.Type)
	assert.Equal(t, "Skyddsrum Sverige", col.Name)
	assert.Len(t, col.Features, 1)
}

func TestShelterFeature_SerializedShape(t *testing.T) {
	f, err := domain.NormalizeShelter(domain.RawShelter{
		Attributes: domain.ShelterAttributes{
			Gatuadress:   strPtr("Storgatan 5"),
			AntalPlatser: numPtr(40),
		},
		Geometry: geom(18.07, 59.33),
	}, 3, "2026-08-29")
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "Feature",
		"geometry": {"type": "Point", "coordinates": [18.07, 59.33]},
		"properties": {"romnr": 3, "plasser": 40, "adresse": "Storgatan 5", "datauttaksdato": "2026-08-29"}
	}`, string(data))
}

func TestRawShelter_DecodesServicePayload(t *testing.T) {
	payload := []byte(`{
		"attributes": {
			"Gatuadress": "Järnvägsgatan 3",
			"AntalPlatser": null,
			"Skyddsrumsnr": "98765-1",
			"Kommunnamn": "Malmö",
			"XKoordinat": 374000.1,
			"YKoordinat": 6164000.2
		},
		"geometry": {"x": 13.0038, "y": 55.605}
	}`)

	var raw domain.RawShelter
	require.NoError(t, json.Unmarshal(payload, &raw))

	require.NotNil(t, raw.Attributes.Gatuadress)
	assert.Equal(t, "Järnvägsgatan 3", *raw.Attributes.Gatuadress)
	assert.Nil(t, raw.Attributes.AntalPlatser)
	assert.True(t, raw.HasGeometry())
	assert.Equal(t, 13.0038, *raw.Geometry.X)
	assert.Equal(t, 55.605, *raw.Geometry.Y)
}
