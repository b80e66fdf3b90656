// Command mockserver runs a local fake of the MSB feature service: a
// deterministic synthetic shelter set served through the same paginated
// query protocol the real endpoint speaks. Point the ETL at it for offline
// runs:
//
//	go run ./cmd/mockserver -addr :8081 -count 4500
//	ARCGIS_BASE_URL=http://localhost:8081/query go run ./cmd/etl
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

// The real service never returns more than maxRecordCount features per
// query, regardless of the requested resultRecordCount.
const maxRecordCount = 2000

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	count := flag.Int("count", 4500, "number of synthetic shelter records")
	seed := flag.Int64("seed", 220225, "random seed for the synthetic data set")
	flag.Parse()

	shelters := generateShelters(*count, *seed)
	log.Printf("serving %d synthetic shelters on %s/query", len(shelters), *addr)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /query", handleQuery(shelters))

	srv := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// queryResponse mirrors the feature-service envelope, including the
// body-level error object used for rejected queries.
type queryResponse struct {
	Features []domain.RawShelter  `json:"features,omitempty"`
	Error    *domain.ServiceError `json:"error,omitempty"`
}

func handleQuery(shelters []domain.RawShelter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		offset, err1 := strconv.Atoi(queryOrDefault(r, "resultOffset", "0"))
		count, err2 := strconv.Atoi(queryOrDefault(r, "resultRecordCount", "2000"))
		if err1 != nil || err2 != nil || offset < 0 || count <= 0 {
			// The real service reports rejections inside a 200 response.
			writeJSON(w, queryResponse{Error: &domain.ServiceError{
				Code:    400,
				Message: "Invalid query parameters",
			}})
			return
		}

		if count > maxRecordCount {
			count = maxRecordCount
		}

		if offset >= len(shelters) {
			writeJSON(w, queryResponse{Features: []domain.RawShelter{}})
			return
		}

		end := offset + count
		if end > len(shelters) {
			end = len(shelters)
		}
		writeJSON(w, queryResponse{Features: shelters[offset:end]})
	}
}

func queryOrDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// Swedish street names, most carrying å/ä/ö so encoding problems surface
// immediately in a test run.
var streetNames = []string{
	"Storgatan",
	"Kungsgatan",
	"Östra Hamngatan",
	"Västra Frölundagatan",
	"Änggatan",
	"Järnvägsgatan",
	"Södra Vägen",
	"Åkergatan",
	"Drottninggatan",
	"Björkvägen",
}

var municipalities = []string{"Stockholm", "Göteborg", "Malmö", "Uppsala", "Västerås", "Örebro"}

// generateShelters builds a reproducible synthetic data set. A few records
// have no geometry or a null capacity so the ETL's skip and default paths
// are exercised.
func generateShelters(count int, seed int64) []domain.RawShelter {
	rng := rand.New(rand.NewSource(seed))

	shelters := make([]domain.RawShelter, count)
	for i := range shelters {
		street := streetNames[rng.Intn(len(streetNames))]
		address := fmt.Sprintf("%s %d", street, 1+rng.Intn(120))
		municipality := municipalities[rng.Intn(len(municipalities))]
		shelterNr := fmt.Sprintf("%06d-%d", 100000+i, 1+rng.Intn(9))

		attrs := domain.ShelterAttributes{
			Gatuadress:   &address,
			Skyddsrumsnr: &shelterNr,
			Kommunnamn:   &municipality,
		}

		// Roughly 1 in 50 records has no reported capacity.
		if rng.Intn(50) != 0 {
			capacity := float64(10 + 5*rng.Intn(100))
			attrs.AntalPlatser = &capacity
		}

		s := domain.RawShelter{Attributes: attrs}

		// Roughly 1 in 200 records is missing geometry.
		if rng.Intn(200) != 0 {
			// Somewhere in Sweden.
			lon := 11.0 + rng.Float64()*13.0
			lat := 55.3 + rng.Float64()*13.8
			x, y := lon, lat
			s.Geometry = &domain.RawGeometry{X: &x, Y: &y}

			sweref := projectedApprox(lon, lat)
			attrs.XKoordinat = &sweref[0]
			attrs.YKoordinat = &sweref[1]
			s.Attributes = attrs
		}

		shelters[i] = s
	}
	return shelters
}

// projectedApprox fakes SWEREF 99 TM coordinates. The ETL never reads them,
// they only make the payload shape realistic.
func projectedApprox(lon, lat float64) [2]float64 {
	return [2]float64{
		500000 + (lon-15.0)*60000,
		lat * 111000,
	}
}
