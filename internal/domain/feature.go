package domain

// CollectionName is the fixed name of the output feature collection.
const CollectionName = "Skyddsrum Sverige"

// PointGeometry is a GeoJSON Point. Coordinates are [longitude, latitude],
// copied verbatim from the raw geometry's x/y.
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ShelterProperties is the property block the map app consumes. Field names
// are Norwegian for historical reasons, see the package comment.
type ShelterProperties struct {
	RoomNr      int    `json:"romnr"`
	Places      int    `json:"plasser"`
	Address     string `json:"adresse"`
	ExtractedOn string `json:"datauttaksdato"`
}

// ShelterFeature is one normalized output feature.
type ShelterFeature struct {
	Type       string            `json:"type"`
	Geometry   PointGeometry     `json:"geometry"`
	Properties ShelterProperties `json:"properties"`
}

// ShelterCollection is the output document, written once per run.
type ShelterCollection struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	Features []ShelterFeature `json:"features"`
}

// NewShelterCollection wraps features in the fixed collection envelope.
func NewShelterCollection(features []ShelterFeature) ShelterCollection {
	return ShelterCollection{
		Type:     "FeatureCollection",
		Name:     CollectionName,
		Features: features,
	}
}
