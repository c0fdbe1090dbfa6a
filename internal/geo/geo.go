// Package geo implements proximity queries over GeoJSON points on a
// spherical earth model, both as a MongoDB $geoNear pipeline and as an
// in-process evaluator for the in-memory stores.
package geo

import (
	"math"
	"sort"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EarthRadiusMeters is the mean radius used for distance computations.
const EarthRadiusMeters = 6371008.8

const (
	DefaultRadiusMeters = 5000
	DefaultLimit        = 50
)

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b domain.GeoPoint) float64 {
	lat1 := radians(a.Latitude())
	lat2 := radians(b.Latitude())
	dLat := lat2 - lat1
	dLon := radians(b.Longitude() - a.Longitude())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Query describes a near search. Filter is an extra match applied before the
// distance cut, for example an expiry range.
type Query struct {
	Center      domain.GeoPoint
	MaxDistance float64
	ExcludeID   string
	Filter      bson.M
	Sort        bson.D
	Limit       int
}

// WithDefaults fills radius and limit when unset.
func (q Query) WithDefaults() Query {
	if q.MaxDistance <= 0 {
		q.MaxDistance = DefaultRadiusMeters
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Pipeline builds the aggregation for q against a collection with a 2dsphere
// index on key. Results carry the computed distance in "distance".
func (q Query) Pipeline(key string) mongo.Pipeline {
	q = q.WithDefaults()
	match := bson.M{}
	for k, v := range q.Filter {
		match[k] = v
	}
	if q.ExcludeID != "" {
		match["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	near := bson.D{
		{Key: "near", Value: bson.M{"type": "Point", "coordinates": bson.A{q.Center.Longitude(), q.Center.Latitude()}}},
		{Key: "distanceField", Value: "distance"},
		{Key: "maxDistance", Value: q.MaxDistance},
		{Key: "spherical", Value: true},
		{Key: "key", Value: key},
		{Key: "query", Value: match},
	}
	sortStage := bson.D{{Key: "distance", Value: 1}}
	sortStage = append(sortStage, q.Sort...)
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: near}},
		{{Key: "$sort", Value: sortStage}},
		{{Key: "$limit", Value: int64(q.Limit)}},
	}
}

// Hit is an item paired with its distance from the query center.
type Hit[T any] struct {
	Item     T
	Distance float64
}

// Candidate describes how Nearest reads an item.
type Candidate[T any] struct {
	ID       func(T) string
	Location func(T) (domain.GeoPoint, bool)
	// Keep applies the auxiliary filter; nil keeps everything.
	Keep func(T) bool
	// Less breaks distance ties; nil keeps input order.
	Less func(a, b T) bool
}

// Nearest evaluates q over items in memory with the same semantics as the
// $geoNear pipeline: exclusion, auxiliary filter, radius, distance order, cap.
func Nearest[T any](items []T, q Query, c Candidate[T]) []Hit[T] {
	q = q.WithDefaults()
	hits := make([]Hit[T], 0)
	for _, it := range items {
		if q.ExcludeID != "" && c.ID != nil && c.ID(it) == q.ExcludeID {
			continue
		}
		if c.Keep != nil && !c.Keep(it) {
			continue
		}
		loc, ok := c.Location(it)
		if !ok {
			continue
		}
		d := Distance(q.Center, loc)
		if d > q.MaxDistance {
			continue
		}
		hits = append(hits, Hit[T]{Item: it, Distance: d})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		if c.Less != nil {
			return c.Less(hits[i].Item, hits[j].Item)
		}
		return false
	})
	if len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	return hits
}
