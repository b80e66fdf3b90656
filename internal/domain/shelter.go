package domain

import "fmt"

// ShelterAttributes is the attribute mapping of one raw feature as returned
// by the feature service. Pointer fields distinguish absent/null values from
// zero values.
type ShelterAttributes struct {
	Gatuadress   *string  `json:"Gatuadress"`
	AntalPlatser *float64 `json:"AntalPlatser"`
	Skyddsrumsnr *string  `json:"Skyddsrumsnr"`
	Kommunnamn   *string  `json:"Kommunnamn"`
	XKoordinat   *float64 `json:"XKoordinat"`
	YKoordinat   *float64 `json:"YKoordinat"`
}

// RawGeometry is the geometry object of a raw feature. After server-side
// reprojection x is longitude and y is latitude. Either field may be absent.
type RawGeometry struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// RawShelter is one unprocessed feature from the service response.
type RawShelter struct {
	Attributes ShelterAttributes `json:"attributes"`
	Geometry   *RawGeometry      `json:"geometry"`
}

// HasGeometry reports whether both coordinates are present.
func (r RawShelter) HasGeometry() bool {
	return r.Geometry != nil && r.Geometry.X != nil && r.Geometry.Y != nil
}

// ServiceError is a logical error embedded in an otherwise successful
// feature-service response body.
type ServiceError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("feature service error %d: %s", e.Code, e.Message)
}
