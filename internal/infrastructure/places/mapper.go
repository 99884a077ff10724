package places

import "github.com/carefinder/backend/internal/domain"

// placeDetails is the wire shape of one place-details record.
type placeDetails struct {
	Name           string   `json:"name"`
	Address        string   `json:"formatted_address"`
	Phone          string   `json:"formatted_phone_number"`
	Website        string   `json:"website"`
	Rating         *float64 `json:"rating"`
	ReviewCount    int      `json:"user_ratings_total"`
	BusinessStatus string   `json:"business_status"`
	Geometry       *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Reviews []struct {
		AuthorName string  `json:"author_name"`
		Rating     float64 `json:"rating"`
		Text       string  `json:"text"`
	} `json:"reviews"`
}

// mapToProvider converts a wire details record to the domain model.
func mapToProvider(placeID string, d *placeDetails) domain.Provider {
	p := domain.Provider{
		PlaceID:        placeID,
		Name:           d.Name,
		Address:        d.Address,
		Phone:          d.Phone,
		Website:        d.Website,
		Rating:         d.Rating,
		ReviewCount:    d.ReviewCount,
		BusinessStatus: d.BusinessStatus,
	}

	if p.BusinessStatus == "" {
		p.BusinessStatus = "UNKNOWN"
	}

	if d.Geometry != nil {
		lat := d.Geometry.Location.Lat
		lng := d.Geometry.Location.Lng
		p.Latitude = &lat
		p.Longitude = &lng
	}

	for _, r := range d.Reviews {
		p.Reviews = append(p.Reviews, domain.Review{
			Author: r.AuthorName,
			Rating: r.Rating,
			Text:   r.Text,
		})
	}

	return p
}
