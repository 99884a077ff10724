package domain

// Review is a single user review attached to a provider listing.
type Review struct {
	Author string  `json:"author,omitempty"`
	Rating float64 `json:"rating,omitempty"`
	Text   string  `json:"text"`
}

// Provider represents a single childcare business listing.
// Rating and coordinates are pointers because the upstream API omits them
// for some listings; absent values degrade features rather than erroring.
type Provider struct {
	PlaceID        string   `json:"placeId"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    int      `json:"reviewCount"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	BusinessStatus string   `json:"businessStatus,omitempty"`
	Reviews        []Review `json:"reviews,omitempty"`

	Features Features `json:"features"`
}

// MissingDistance is the sentinel distance assigned to providers without
// coordinates, so they sort last and fail every within-distance filter.
const MissingDistance = 999.0

// Features holds the numeric features derived once per provider.
// Every field is a pure function of the provider's own raw fields.
type Features struct {
	DistanceMiles float64 `json:"distanceMiles"`

	// Educational philosophy flags (0 or 1).
	MentionsMontessori int `json:"mentionsMontessori"`
	MentionsReggio     int `json:"mentionsReggio"`
	MentionsPlayBased  int `json:"mentionsPlayBased"`
	MentionsSTEM       int `json:"mentionsStem"`

	// Quality indicator keyword counts.
	MentionsClean       int `json:"mentionsClean"`
	MentionsSafe        int `json:"mentionsSafe"`
	MentionsCaring      int `json:"mentionsCaring"`
	MentionsEducational int `json:"mentionsEducational"`

	// Price indicator keyword counts.
	MentionsAffordable int `json:"mentionsAffordable"`
	MentionsExpensive  int `json:"mentionsExpensive"`

	// Sentiment keyword counts.
	PositiveKeywords int `json:"positiveKeywordsCount"`
	NegativeKeywords int `json:"negativeKeywordsCount"`

	AvgReviewLength float64 `json:"avgReviewLength"`
	EstimatedPrice  float64 `json:"estimatedPrice"`
	QualityScore    float64 `json:"qualityScore"`
}

// ValueKeywords are the educational philosophies a user can request in
// Preferences.Values. Each maps to a review-derived mention flag.
var ValueKeywords = []string{"montessori", "reggio", "play_based", "stem"}

// ValueMentions returns the mention count for a named value keyword,
// or 0 for an unknown keyword.
func (f Features) ValueMentions(value string) int {
	switch value {
	case "montessori":
		return f.MentionsMontessori
	case "reggio":
		return f.MentionsReggio
	case "play_based":
		return f.MentionsPlayBased
	case "stem":
		return f.MentionsSTEM
	}
	return 0
}

// RatingOr returns the provider's rating, or fallback when absent.
func (p *Provider) RatingOr(fallback float64) float64 {
	if p.Rating == nil {
		return fallback
	}
	return *p.Rating
}

// HasCoordinates reports whether both latitude and longitude are present.
func (p *Provider) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Preferences is the ephemeral user input used to score providers.
// It is never persisted; scores are recomputed on every change.
type Preferences struct {
	MaxDistance float64  `json:"maxDistance"`
	MaxBudget   float64  `json:"maxBudget"`
	MinRating   float64  `json:"minRating"`
	Values      []string `json:"values,omitempty"`
}

// Recommendation pairs a provider with its match score for a preference set.
type Recommendation struct {
	Provider   `json:"provider"`
	MatchScore float64 `json:"matchScore"`
}
