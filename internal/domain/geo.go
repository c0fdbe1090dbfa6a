package domain

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) Validate() error {
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return NewError(ErrValidation, "location must be a point with [longitude, latitude]")
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	if lon < -180 || lon > 180 {
		return Errorf(ErrValidation, "longitude %.6f out of range", lon)
	}
	if lat < -90 || lat > 90 {
		return Errorf(ErrValidation, "latitude %.6f out of range", lat)
	}
	return nil
}
