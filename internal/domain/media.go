package domain

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	Type         MediaType `bson:"type" json:"type"`
	URL          string    `bson:"url" json:"url"`
	ThumbnailURL string    `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	Duration     *float64  `bson:"duration,omitempty" json:"duration,omitempty"`
}

func (m Media) Validate() error {
	if m.Type != MediaImage && m.Type != MediaVideo {
		return Errorf(ErrValidation, "unsupported media type %q", m.Type)
	}
	if m.URL == "" {
		return NewError(ErrValidation, "media url is required")
	}
	return nil
}
