package graph

// StreetIndex answers nearest-vertex queries over the street network.
// Real deployments inject a spatial index implementation through
// StreetIndexFactory at load time; the built-in default is a linear scan
// good enough for tests and small graphs.
type StreetIndex interface {
	NearestVertex(lat, lon float64) *Vertex
}

// StreetIndexFactory constructs the street index during a FULL or DEBUG
// load, letting callers swap spatial index implementations without
// touching the persisted format.
type StreetIndexFactory interface {
	NewIndex(g *Graph) StreetIndex
}

// DefaultStreetIndexFactory builds the linear-scan index.
type DefaultStreetIndexFactory struct{}

func (DefaultStreetIndexFactory) NewIndex(g *Graph) StreetIndex {
	return &linearStreetIndex{vertices: g.Vertices()}
}

type linearStreetIndex struct {
	vertices []*Vertex
}

func (ix *linearStreetIndex) NearestVertex(lat, lon float64) *Vertex {
	var best *Vertex
	bestDist := 0.0
	for _, v := range ix.vertices {
		dLat := v.Lat() - lat
		dLon := v.Lon() - lon
		d := dLat*dLat + dLon*dLon
		if best == nil || d < bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}
