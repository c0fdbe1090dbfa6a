package geo

import (
	"math"
	"testing"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

type place struct {
	id  string
	loc *domain.GeoPoint
	tag int
}

func point(lon, lat float64) *domain.GeoPoint {
	p := domain.NewPoint(lon, lat)
	return &p
}

var placeCandidate = Candidate[place]{
	ID: func(p place) string { return p.id },
	Location: func(p place) (domain.GeoPoint, bool) {
		if p.loc == nil {
			return domain.GeoPoint{}, false
		}
		return *p.loc, true
	},
	Less: func(a, b place) bool { return a.tag > b.tag },
}

func TestDistance(t *testing.T) {
	paris := domain.NewPoint(2.3522, 48.8566)
	london := domain.NewPoint(-0.1276, 51.5072)

	d := Distance(paris, london)
	if math.Abs(d-343_500) > 2_000 {
		t.Fatalf("expected about 343.5km got %.0fm", d)
	}
	if Distance(paris, paris) != 0 {
		t.Fatal("expected zero distance to self")
	}
	if math.Abs(Distance(paris, london)-Distance(london, paris)) > 1e-6 {
		t.Fatal("expected symmetric distance")
	}
}

func TestNearestOrdersAndFilters(t *testing.T) {
	center := domain.NewPoint(2.35, 48.85)
	items := []place{
		{id: "far", loc: point(2.45, 48.85)},  // ~7.3km
		{id: "near", loc: point(2.351, 48.85)}, // ~73m
		{id: "mid", loc: point(2.38, 48.85)},   // ~2.2km
		{id: "self", loc: point(2.35, 48.85)},
		{id: "nowhere"},
	}

	hits := Nearest(items, Query{Center: center, ExcludeID: "self"}, placeCandidate)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits got %d", len(hits))
	}
	if hits[0].Item.id != "near" || hits[1].Item.id != "mid" {
		t.Fatalf("expected near then mid, got %s then %s", hits[0].Item.id, hits[1].Item.id)
	}
	if hits[0].Distance >= hits[1].Distance {
		t.Fatal("expected ascending distances")
	}
}

func TestNearestTieBreakAndLimit(t *testing.T) {
	center := domain.NewPoint(10, 10)
	items := []place{
		{id: "a", loc: point(10, 10), tag: 1},
		{id: "b", loc: point(10, 10), tag: 3},
		{id: "c", loc: point(10, 10), tag: 2},
	}
	hits := Nearest(items, Query{Center: center, Limit: 2}, placeCandidate)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits got %d", len(hits))
	}
	if hits[0].Item.id != "b" || hits[1].Item.id != "c" {
		t.Fatalf("expected b then c got %s then %s", hits[0].Item.id, hits[1].Item.id)
	}
}

func TestNearestKeepFilter(t *testing.T) {
	center := domain.NewPoint(0, 0)
	items := []place{{id: "a", loc: point(0, 0), tag: 1}, {id: "b", loc: point(0, 0), tag: 2}}
	c := placeCandidate
	c.Keep = func(p place) bool { return p.tag == 2 }

	hits := Nearest(items, Query{Center: center}, c)
	if len(hits) != 1 || hits[0].Item.id != "b" {
		t.Fatalf("expected only b, got %+v", hits)
	}
}

func TestPipeline(t *testing.T) {
	q := Query{
		Center:    domain.NewPoint(2.35, 48.85),
		ExcludeID: "me",
		Filter:    bson.M{"expires_at": bson.M{"$gte": 1}},
		Sort:      bson.D{{Key: "expires_at", Value: -1}},
	}
	p := q.Pipeline("location")
	if len(p) != 3 {
		t.Fatalf("expected 3 stages got %d", len(p))
	}
	if p[0][0].Key != "$geoNear" {
		t.Fatalf("expected $geoNear first got %s", p[0][0].Key)
	}
	near := p[0][0].Value.(bson.D)
	var match bson.M
	var maxDistance float64
	for _, e := range near {
		switch e.Key {
		case "query":
			match = e.Value.(bson.M)
		case "maxDistance":
			maxDistance = e.Value.(float64)
		}
	}
	if maxDistance != DefaultRadiusMeters {
		t.Fatalf("expected default radius got %v", maxDistance)
	}
	if _, ok := match["_id"]; !ok {
		t.Fatal("expected self exclusion in query")
	}
	if _, ok := match["expires_at"]; !ok {
		t.Fatal("expected auxiliary filter in query")
	}
	sortStage := p[1][0].Value.(bson.D)
	if len(sortStage) != 2 || sortStage[0].Key != "distance" || sortStage[1].Key != "expires_at" {
		t.Fatalf("unexpected sort stage %v", sortStage)
	}
	if p[2][0].Value.(int64) != DefaultLimit {
		t.Fatalf("expected default limit got %v", p[2][0].Value)
	}
}
