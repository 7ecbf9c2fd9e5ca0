package hotspots

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// SortKey selects the ordering of search results.
type SortKey string

const (
	// SortClosest is the default key. Without an origin coordinate it is a
	// pass-through; with one, results order by haversine distance ascending.
	SortClosest SortKey = "closest"
	SortName    SortKey = "name"
	SortSpeed   SortKey = "speed"
	SortRating  SortKey = "rating"
)

// Query describes one run of the search pipeline.
type Query struct {
	// Text is matched case-insensitively against name and address.
	// Empty passes everything.
	Text string
	Sort SortKey
	// Origin enables the distance ordering for SortClosest.
	Origin *Coordinates
}

// Run normalizes raw records, filters them by the query text and orders
// them by the sort key. It is pure: no I/O, deterministic for a fixed input.
func Run(raw []RawHotspot, q Query) []DisplayHotspot {
	return Sort(Filter(NormalizeAll(raw), q.Text), q.Sort, q.Origin)
}

// Filter keeps records whose name or address contains the query as a
// case-insensitive substring.
func Filter(list []DisplayHotspot, query string) []DisplayHotspot {
	if query == "" {
		return list
	}

	q := strings.ToLower(query)
	out := make([]DisplayHotspot, 0, len(list))
	for _, h := range list {
		if strings.Contains(strings.ToLower(h.Name), q) ||
			strings.Contains(strings.ToLower(h.Address), q) {
			out = append(out, h)
		}
	}
	return out
}

// Sort returns a reordered copy of list. Ties keep input order.
func Sort(list []DisplayHotspot, key SortKey, origin *Coordinates) []DisplayHotspot {
	out := make([]DisplayHotspot, len(list))
	copy(out, list)

	switch key {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	case SortSpeed:
		sort.SliceStable(out, func(i, j int) bool {
			return leadingFloat(out[i].Speed) > leadingFloat(out[j].Speed)
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	case SortClosest:
		if origin == nil {
			return out
		}
		sort.SliceStable(out, func(i, j int) bool {
			return distanceFrom(origin, out[i].Coordinates) < distanceFrom(origin, out[j].Coordinates)
		})
	}

	return out
}

// leadingFloat parses the leading numeric portion of a formatted value such
// as "45 Mbps". Absent or non-numeric input counts as 0.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)

	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if end == 0 && (c == '+' || c == '-') {
			end++
			continue
		}
		break
	}

	v, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

const earthRadiusKm = 6371.0

// distanceFrom returns the haversine distance in kilometers. Records
// without coordinates sort after every located one.
func distanceFrom(origin, point *Coordinates) float64 {
	if point == nil {
		return math.MaxFloat64
	}

	latA := origin.Lat * math.Pi / 180
	latB := point.Lat * math.Pi / 180
	dLat := (point.Lat - origin.Lat) * math.Pi / 180
	dLng := (point.Lng - origin.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
