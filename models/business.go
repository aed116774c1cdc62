package models

type ColorScheme string

const (
	ColorZinc   ColorScheme = "zinc"
	ColorRed    ColorScheme = "red"
	ColorRose   ColorScheme = "rose"
	ColorOrange ColorScheme = "orange"
	ColorGreen  ColorScheme = "green"
	ColorBlue   ColorScheme = "blue"
	ColorYellow ColorScheme = "yellow"
	ColorViolet ColorScheme = "violet"
)

// ColorSchemes lists every accepted scheme; zinc is the default.
var ColorSchemes = []ColorScheme{ColorZinc, ColorRed, ColorRose, ColorOrange, ColorGreen, ColorBlue, ColorYellow, ColorViolet}

func (c ColorScheme) Valid() bool {
	for _, s := range ColorSchemes {
		if c == s {
			return true
		}
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Question struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

type Business struct {
	ID             string      `json:"id"`
	UniqueID       string      `json:"uniqueID"`
	Name           string      `json:"name"`
	Slug           string      `json:"slug"`
	Location       Location    `json:"location"`
	Type           []string    `json:"type"`
	GoogleLink     string      `json:"googleLink,omitempty"`
	ReviewPageLink string      `json:"reviewPageLink,omitempty"`
	Questions      []Question  `json:"questions"`
	ColorScheme    ColorScheme `json:"colorScheme"`
	CreatedAt      int64       `json:"createdAt"`
	UpdatedAt      int64       `json:"updatedAt"`
}

// PrimaryType is the category fed to the review generator.
func (b *Business) PrimaryType() string {
	if len(b.Type) == 0 || b.Type[0] == "" {
		return "business"
	}
	return b.Type[0]
}

type BusinessInput struct {
	Name           string      `json:"name"`
	Slug           string      `json:"slug"`
	Location       *Location   `json:"location"`
	Type           []string    `json:"type"`
	GoogleLink     string      `json:"googleLink"`
	ReviewPageLink string      `json:"reviewPageLink"`
	Questions      []Question  `json:"questions"`
	ColorScheme    ColorScheme `json:"colorScheme" binding:"omitempty,oneof=zinc red rose orange green blue yellow violet"`
}

// BusinessUpdate is a partial patch; nil fields are left untouched.
type BusinessUpdate struct {
	Name           *string      `json:"name"`
	Slug           *string      `json:"slug"`
	Location       *Location    `json:"location"`
	Type           *[]string    `json:"type"`
	GoogleLink     *string      `json:"googleLink"`
	ReviewPageLink *string      `json:"reviewPageLink"`
	Questions      *[]Question  `json:"questions"`
	ColorScheme    *ColorScheme `json:"colorScheme" binding:"omitempty,oneof=zinc red rose orange green blue yellow violet"`
}

func (u BusinessUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Location == nil && u.Type == nil && u.GoogleLink == nil &&
		u.ReviewPageLink == nil && u.Questions == nil && u.ColorScheme == nil
}

// Apply copies every set field onto b. Timestamps are the store's concern.
func (u BusinessUpdate) Apply(b *Business) {
	if u.Name != nil {
		b.Name = *u.Name
	}
	if u.Slug != nil {
		b.Slug = *u.Slug
	}
	if u.Location != nil {
		b.Location = *u.Location
	}
	if u.Type != nil {
		b.Type = *u.Type
	}
	if u.GoogleLink != nil {
		b.GoogleLink = *u.GoogleLink
	}
	if u.ReviewPageLink != nil {
		b.ReviewPageLink = *u.ReviewPageLink
	}
	if u.Questions != nil {
		b.Questions = *u.Questions
	}
	if u.ColorScheme != nil {
		b.ColorScheme = *u.ColorScheme
	}
}
