package utils

import (
	"fmt"
	"math"
)

const earthRadiusKM = 6371.0

// HaversineKM is the great-circle distance between two coordinates.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// BearingDeg is the initial compass bearing from the first to the second point.
func BearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// PresentableDistance formats the remaining distance to a station for display
func PresentableDistance(stopsAway int, distKM float64) string {
	const (
		atStationKM   = 0.2
		approachingKM = 2.0
	)
	if stopsAway <= 0 {
		return "arrived"
	}
	if stopsAway == 1 {
		if distKM < atStationKM {
			return "at station"
		}
		if distKM < approachingKM {
			return "approaching"
		}
	}
	stops := fmt.Sprintf("%d stops", stopsAway)
	if stopsAway == 1 {
		stops = "1 stop"
	}
	return fmt.Sprintf("%s, %s km", stops, trimFloat(distKM))
}

func trimFloat(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
