// Package domain models Swedish civil-defense shelter (skyddsrum) data.
//
// # Data Source
//
// Shelter records come from the Swedish Civil Contingencies Agency (MSB)
// public ArcGIS Feature Service. The service is queried page by page
// (maximum 2000 records per request) with coordinates reprojected
// server-side to WGS-84 (outSR=4326), so geometry arrives as geographic
// longitude/latitude and is never transformed by this program.
//
// Requested attribute fields:
//
//	Gatuadress    street address (may be null)
//	AntalPlatser  shelter capacity in persons (may be null)
//	Skyddsrumsnr  MSB shelter identifier
//	Kommunnamn    municipality name
//	XKoordinat    projected X coordinate (SWEREF 99 TM, informational only)
//	YKoordinat    projected Y coordinate (SWEREF 99 TM, informational only)
//
// # Output Schema
//
// The consuming map app predates the Swedish data set, which is why the
// output property names are Norwegian:
//
//	romnr           sequential 0-based feature index (NOT Skyddsrumsnr;
//	                see [NormalizeShelter])
//	plasser         capacity, never negative, 0 when unreported
//	adresse         trimmed street address, "Okänd adress" when unknown
//	datauttaksdato  date the data was extracted, YYYY-MM-DD, identical for
//	                every feature in one run
//
// Swedish addresses carry å/ä/ö; the output file must keep them verbatim
// (no \uXXXX escapes), and [HasSwedishChars] backs the encoding smoke test
// performed after writing.
package domain
