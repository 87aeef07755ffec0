package analytics

import (
	"math"
	"sort"
	"strings"
)

// Risk levels.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// RiskScore combines volume, severity and clearance into a 0-100 score:
// min(cap, VolumeWeight*sqrt(n)) + SevereWeight*severe/n + UnsolvedWeight*unsolved/n.
// The result is rounded to one decimal place.
func RiskScore(incidents, severe, unsolved int, cfg RiskConfig) float64 {
	if incidents <= 0 {
		return 0
	}
	n := float64(incidents)
	volume := cfg.VolumeWeight * math.Sqrt(n)
	if cfg.VolumeCap > 0 && volume > cfg.VolumeCap {
		volume = cfg.VolumeCap
	}
	score := volume + cfg.SevereWeight*float64(severe)/n + cfg.UnsolvedWeight*float64(unsolved)/n
	return round(score, 1)
}

// Band classifies a risk score.
func Band(score float64, cfg RiskConfig) string {
	switch {
	case score >= cfg.CriticalAt:
		return RiskCritical
	case score >= cfg.HighAt:
		return RiskHigh
	case score >= cfg.MediumAt:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Unsolved reports whether an incident has neither an arrest nor a solved status.
func (i Incident) Unsolved() bool {
	if i.ArrestMade {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(i.Status)) {
	case "solved", "closed", "cleared":
		return false
	}
	return true
}

// Tally is the aggregate of a group of incidents.
type Tally struct {
	Incidents    int
	Severe       int
	Unsolved     int
	Arrests      int
	PrimaryCrime string
	District     string
	Latitude     float64
	Longitude    float64
}

// ArrestRate is the percentage of incidents with an arrest, one decimal place.
func (t Tally) ArrestRate() float64 {
	if t.Incidents == 0 {
		return 0
	}
	return round(100*float64(t.Arrests)/float64(t.Incidents), 1)
}

func tally(incidents []Incident, cfg RiskConfig) Tally {
	t := Tally{Incidents: len(incidents)}
	crimeTypes := map[string]int{}
	districts := map[string]int{}
	var lat, lon float64
	located := 0
	for _, in := range incidents {
		if cfg.isSevere(in.Severity) {
			t.Severe++
		}
		if in.Unsolved() {
			t.Unsolved++
		}
		if in.ArrestMade {
			t.Arrests++
		}
		if in.CrimeType != "" {
			crimeTypes[in.CrimeType]++
		}
		if in.District != "" {
			districts[in.District]++
		}
		if in.Located {
			lat += in.Latitude
			lon += in.Longitude
			located++
		}
	}
	if located > 0 {
		t.Latitude = round(lat/float64(located), 5)
		t.Longitude = round(lon/float64(located), 5)
	}
	t.PrimaryCrime = mode(crimeTypes)
	t.District = mode(districts)
	return t
}

// mode returns the most frequent key, smallest key on ties.
func mode(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// Hotspot is a dense cluster of incidents with its risk score.
type Hotspot struct {
	Tally
	Cluster   int
	RiskScore float64
	RiskLevel string
}

// Hotspots clusters located incidents with DBSCAN and scores each cluster.
// Noise points are excluded. Fewer than MinIncidents located incidents yields
// no hotspots.
func Hotspots(incidents []Incident, hc HotspotConfig, rc RiskConfig) []Hotspot {
	points := make([]Incident, 0, len(incidents))
	for _, in := range incidents {
		if in.Located {
			points = append(points, in)
		}
	}
	if len(points) < hc.MinIncidents || len(points) == 0 {
		return nil
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].CrimeID != points[j].CrimeID {
			return points[i].CrimeID < points[j].CrimeID
		}
		return points[i].Location < points[j].Location
	})

	labels := dbscan(points, hc.Radius, hc.MinPoints)
	clusters := map[int][]Incident{}
	for i, l := range labels {
		if l > 0 {
			clusters[l] = append(clusters[l], points[i])
		}
	}

	var out []Hotspot
	for id, members := range clusters {
		if len(members) < hc.MinPoints {
			continue
		}
		t := tally(members, rc)
		score := RiskScore(t.Incidents, t.Severe, t.Unsolved, rc)
		out = append(out, Hotspot{Tally: t, Cluster: id, RiskScore: score, RiskLevel: Band(score, rc)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		if out[i].Incidents != out[j].Incidents {
			return out[i].Incidents > out[j].Incidents
		}
		return out[i].Cluster < out[j].Cluster
	})
	return out
}

const noise = -1

// dbscan labels each point with a cluster number starting at 1, or noise.
// Distance is Euclidean in degrees. minPts counts the point itself.
func dbscan(points []Incident, eps float64, minPts int) []int {
	labels := make([]int, len(points))
	eps2 := eps * eps

	neighbours := func(i int) []int {
		var out []int
		for j := range points {
			dLat := points[i].Latitude - points[j].Latitude
			dLon := points[i].Longitude - points[j].Longitude
			if dLat*dLat+dLon*dLon <= eps2 {
				out = append(out, j)
			}
		}
		return out
	}

	cluster := 0
	for i := range points {
		if labels[i] != 0 {
			continue
		}
		seeds := neighbours(i)
		if len(seeds) < minPts {
			labels[i] = noise
			continue
		}
		cluster++
		labels[i] = cluster
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if labels[j] == noise {
				labels[j] = cluster
			}
			if labels[j] != 0 {
				continue
			}
			labels[j] = cluster
			if more := neighbours(j); len(more) >= minPts {
				seeds = append(seeds, more...)
			}
		}
	}
	return labels
}

// LocationRisk is the risk score of one Location node.
type LocationRisk struct {
	Tally
	Location  string
	RiskScore float64
	RiskLevel string
}

// LocationRisks scores every location that has incidents, sorted by risk
// descending with ties broken by name.
func LocationRisks(incidents []Incident, rc RiskConfig) []LocationRisk {
	byLocation := map[string][]Incident{}
	for _, in := range incidents {
		if in.Location != "" {
			byLocation[in.Location] = append(byLocation[in.Location], in)
		}
	}

	out := make([]LocationRisk, 0, len(byLocation))
	for name, group := range byLocation {
		t := tally(group, rc)
		score := RiskScore(t.Incidents, t.Severe, t.Unsolved, rc)
		out = append(out, LocationRisk{Tally: t, Location: name, RiskScore: score, RiskLevel: Band(score, rc)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].Location < out[j].Location
	})
	return out
}
