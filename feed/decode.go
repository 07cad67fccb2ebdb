package feed

import (
	"fmt"
	"sort"
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// VehicleStatus is what a feed says about one train.
type VehicleStatus struct {
	TrainNo      string
	StopID       string
	StopSequence int
	InTransit    bool
	DelaySeconds int
	Lat          float64
	Lng          float64
	Bearing      float64
	Timestamp    int64
}

// Index is the path index of the station the train is at or last left,
// taking the stop sequence as a zero-based path position.
func (v VehicleStatus) Index() int {
	if v.InTransit && v.StopSequence > 0 {
		return v.StopSequence - 1
	}
	return v.StopSequence
}

// IndexIn resolves the train's station on path by stop id. GTFS stop
// sequences need not start at zero or be contiguous, so the sequence number
// is used only when the feed carries no stop id. ok is false when the stop
// is not on path.
func (v VehicleStatus) IndexIn(path model.Path) (int, bool) {
	if v.StopID == "" {
		return v.Index(), true
	}
	for i, p := range path {
		if p.StopID != v.StopID && p.Code != v.StopID {
			continue
		}
		if v.InTransit && i > 0 {
			i--
		}
		return i, true
	}
	return 0, false
}

// Decode parses a FeedMessage and merges its VehiclePosition and TripUpdate
// entities per train. Trains are keyed by vehicle id, or by trip id with
// any agency prefix removed. The result is sorted by train number.
func Decode(b []byte) ([]VehicleStatus, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("decode gtfs-rt feed: %w", err)
	}

	byTrain := map[string]*VehicleStatus{}
	get := func(trainNo string) *VehicleStatus {
		v, ok := byTrain[trainNo]
		if !ok {
			v = &VehicleStatus{TrainNo: trainNo}
			byTrain[trainNo] = v
		}
		return v
	}

	for _, e := range fm.GetEntity() {
		if e.GetIsDeleted() {
			continue
		}
		if vp := e.GetVehicle(); vp != nil {
			train := trainOf(vp.GetVehicle().GetId(), vp.GetTrip().GetTripId())
			if train == "" {
				continue
			}
			v := get(train)
			v.StopID = vp.GetStopId()
			v.StopSequence = int(vp.GetCurrentStopSequence())
			v.InTransit = vp.GetCurrentStatus() == gtfsrtpb.VehiclePosition_IN_TRANSIT_TO
			v.Timestamp = int64(vp.GetTimestamp())
			if pos := vp.GetPosition(); pos != nil {
				v.Lat = float64(pos.GetLatitude())
				v.Lng = float64(pos.GetLongitude())
				v.Bearing = float64(pos.GetBearing())
			}
		}
		if tu := e.GetTripUpdate(); tu != nil {
			train := trainOf(tu.GetVehicle().GetId(), tu.GetTrip().GetTripId())
			if train == "" {
				continue
			}
			v := get(train)
			switch {
			case tu.Delay != nil:
				v.DelaySeconds = int(tu.GetDelay())
			case len(tu.GetStopTimeUpdate()) > 0:
				v.DelaySeconds = int(tu.GetStopTimeUpdate()[0].GetArrival().GetDelay())
			}
		}
	}

	out := make([]VehicleStatus, 0, len(byTrain))
	for _, v := range byTrain {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrainNo < out[j].TrainNo })
	return out, nil
}

func trainOf(vehicleID, tripID string) string {
	if vehicleID != "" {
		return vehicleID
	}
	if i := strings.LastIndex(tripID, "_"); i >= 0 {
		return tripID[i+1:]
	}
	return tripID
}
