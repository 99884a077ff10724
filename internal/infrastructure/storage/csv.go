package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carefinder/backend/internal/domain"
)

// Column names of the persisted datasets. The results server indexes
// columns by name, so the set must stay stable.
var rawColumns = []string{
	"place_id", "name", "address", "phone", "website",
	"rating", "review_count", "latitude", "longitude",
	"business_status", "reviews",
}

var featureColumns = []string{
	"distance_miles",
	"mentions_montessori", "mentions_reggio", "mentions_play_based", "mentions_stem",
	"mentions_clean", "mentions_safe", "mentions_caring", "mentions_educational",
	"mentions_affordable", "mentions_expensive",
	"positive_keywords_count", "negative_keywords_count",
	"avg_review_length", "estimated_price", "quality_score",
}

// CSVStore persists provider datasets as CSV files: the raw collection,
// the feature-engineered dataset, and the top recommendations.
type CSVStore struct {
	rawPath             string
	processedPath       string
	recommendationsPath string
}

// NewCSVStore creates a store writing to the three given file paths.
func NewCSVStore(rawPath, processedPath, recommendationsPath string) *CSVStore {
	return &CSVStore{
		rawPath:             rawPath,
		processedPath:       processedPath,
		recommendationsPath: recommendationsPath,
	}
}

// SaveRaw writes the collected providers without derived features.
func (s *CSVStore) SaveRaw(providers []domain.Provider) error {
	rows := make([][]string, 0, len(providers))
	for i := range providers {
		row, err := rawRow(&providers[i])
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return writeFile(s.rawPath, rawColumns, rows)
}

// SaveProcessed writes the engineered dataset (raw columns + features).
func (s *CSVStore) SaveProcessed(providers []domain.Provider) error {
	header := append(append([]string{}, rawColumns...), featureColumns...)
	rows := make([][]string, 0, len(providers))
	for i := range providers {
		row, err := rawRow(&providers[i])
		if err != nil {
			return err
		}
		rows = append(rows, append(row, featureRow(&providers[i].Features)...))
	}
	return writeFile(s.processedPath, header, rows)
}

// SaveRecommendations writes the ranked providers with their match scores.
func (s *CSVStore) SaveRecommendations(recs []domain.Recommendation) error {
	header := append(append([]string{}, rawColumns...), featureColumns...)
	header = append(header, "match_score")
	rows := make([][]string, 0, len(recs))
	for i := range recs {
		row, err := rawRow(&recs[i].Provider)
		if err != nil {
			return err
		}
		row = append(row, featureRow(&recs[i].Features)...)
		row = append(row, formatFloat(recs[i].MatchScore))
		rows = append(rows, row)
	}
	return writeFile(s.recommendationsPath, header, rows)
}

// LoadProcessed reads the engineered dataset back. A missing file returns
// ErrDatasetNotFound so callers can print an instructional message.
func (s *CSVStore) LoadProcessed() ([]domain.Provider, error) {
	f, err := os.Open(s.processedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, s.processedPath)
		}
		return nil, fmt.Errorf("csv: open %q: %w", s.processedPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", s.processedPath, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Index columns by name; the column order on disk is not load-bearing.
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}

	providers := make([]domain.Provider, 0, len(records)-1)
	for _, rec := range records[1:] {
		p, err := parseRow(rec, index)
		if err != nil {
			return nil, fmt.Errorf("csv: parse row: %w", err)
		}
		providers = append(providers, p)
	}

	log.Printf("[CSV] Loaded %d providers from %s", len(providers), s.processedPath)
	return providers, nil
}

func writeFile(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}

	log.Printf("[CSV] Wrote %d rows to %s", len(rows), path)
	return nil
}

func rawRow(p *domain.Provider) ([]string, error) {
	reviews, err := json.Marshal(p.Reviews)
	if err != nil {
		return nil, fmt.Errorf("csv: encode reviews: %w", err)
	}

	return []string{
		p.PlaceID,
		p.Name,
		p.Address,
		p.Phone,
		p.Website,
		formatOptFloat(p.Rating),
		strconv.Itoa(p.ReviewCount),
		formatOptFloat(p.Latitude),
		formatOptFloat(p.Longitude),
		p.BusinessStatus,
		string(reviews),
	}, nil
}

func featureRow(f *domain.Features) []string {
	return []string{
		formatFloat(f.DistanceMiles),
		strconv.Itoa(f.MentionsMontessori),
		strconv.Itoa(f.MentionsReggio),
		strconv.Itoa(f.MentionsPlayBased),
		strconv.Itoa(f.MentionsSTEM),
		strconv.Itoa(f.MentionsClean),
		strconv.Itoa(f.MentionsSafe),
		strconv.Itoa(f.MentionsCaring),
		strconv.Itoa(f.MentionsEducational),
		strconv.Itoa(f.MentionsAffordable),
		strconv.Itoa(f.MentionsExpensive),
		strconv.Itoa(f.PositiveKeywords),
		strconv.Itoa(f.NegativeKeywords),
		formatFloat(f.AvgReviewLength),
		formatFloat(f.EstimatedPrice),
		formatFloat(f.QualityScore),
	}
}

func parseRow(rec []string, index map[string]int) (domain.Provider, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	p := domain.Provider{
		PlaceID:        get("place_id"),
		Name:           get("name"),
		Address:        get("address"),
		Phone:          get("phone"),
		Website:        get("website"),
		BusinessStatus: get("business_status"),
	}

	p.Rating = parseOptFloat(get("rating"))
	p.Latitude = parseOptFloat(get("latitude"))
	p.Longitude = parseOptFloat(get("longitude"))
	p.ReviewCount = parseInt(get("review_count"))

	if raw := get("reviews"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Reviews); err != nil {
			return p, fmt.Errorf("decode reviews for %q: %w", p.PlaceID, err)
		}
	}

	p.Features = domain.Features{
		DistanceMiles:       parseFloat(get("distance_miles")),
		MentionsMontessori:  parseInt(get("mentions_montessori")),
		MentionsReggio:      parseInt(get("mentions_reggio")),
		MentionsPlayBased:   parseInt(get("mentions_play_based")),
		MentionsSTEM:        parseInt(get("mentions_stem")),
		MentionsClean:       parseInt(get("mentions_clean")),
		MentionsSafe:        parseInt(get("mentions_safe")),
		MentionsCaring:      parseInt(get("mentions_caring")),
		MentionsEducational: parseInt(get("mentions_educational")),
		MentionsAffordable:  parseInt(get("mentions_affordable")),
		MentionsExpensive:   parseInt(get("mentions_expensive")),
		PositiveKeywords:    parseInt(get("positive_keywords_count")),
		NegativeKeywords:    parseInt(get("negative_keywords_count")),
		AvgReviewLength:     parseFloat(get("avg_review_length")),
		EstimatedPrice:      parseFloat(get("estimated_price")),
		QualityScore:        parseFloat(get("quality_score")),
	}

	return p, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseOptFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
