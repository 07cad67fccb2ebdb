package tracking

import (
	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/utils"
)

// Location is where a tracked train is on its route.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Bearing     float64 `json:"bearing"`
	StationCode string  `json:"stationCode"`
	NextCode    string  `json:"nextStationCode,omitempty"`
	StopsAway   int     `json:"stopsAway"`
	TraveledKM  float64 `json:"traveledKm"`
	RemainingKM float64 `json:"remainingKm"`
	Progress    float64 `json:"progress"`
	Distance    string  `json:"distance"`
}

// Locate places the train at its current station. Bearing points at the
// next station, or keeps the last leg's heading after arrival. Distances are
// great-circle sums over the legs of the path.
func Locate(st model.TrackingState) (Location, bool) {
	cur, ok := st.Current()
	if !ok {
		return Location{}, false
	}
	loc := Location{
		Lat:         cur.Lat,
		Lng:         cur.Lng,
		StationCode: cur.Code,
		StopsAway:   len(st.Path) - 1 - st.CurrentIndex,
	}

	total := 0.0
	for i := 0; i+1 < len(st.Path); i++ {
		a, b := st.Path[i], st.Path[i+1]
		leg := utils.HaversineKM(a.Lat, a.Lng, b.Lat, b.Lng)
		total += leg
		if i < st.CurrentIndex {
			loc.TraveledKM += leg
		}
	}
	loc.RemainingKM = total - loc.TraveledKM
	if total > 0 {
		loc.Progress = loc.TraveledKM / total
	} else {
		loc.Progress = 1
	}

	switch next, ok := st.Next(); {
	case ok:
		loc.NextCode = next.Code
		loc.Bearing = utils.BearingDeg(cur.Lat, cur.Lng, next.Lat, next.Lng)
	case st.CurrentIndex > 0:
		prev := st.Path[st.CurrentIndex-1]
		loc.Bearing = utils.BearingDeg(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	loc.Distance = utils.PresentableDistance(loc.StopsAway, loc.RemainingKM)
	return loc, true
}
