package feed

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/tracking"
	"github.com/theoremus-urban-solutions/yatriq/utils"
)

const gtfsRealtimeVersion = "2.0"

// EncodeOptions scope the ids written into a feed.
type EncodeOptions struct {
	AgencyID string
	// ServiceDate is YYYY-MM-DD; empty uses the date of Now.
	ServiceDate string
	Now         time.Time
}

// TripID is the trip id of a train, prefixed with the agency when set.
func TripID(agencyID, trainNo string) string {
	if agencyID == "" {
		return trainNo
	}
	return agencyID + "_" + trainNo
}

// Encode builds a full-dataset feed for one train. A running train is
// IN_TRANSIT_TO its next station; an arrived one is STOPPED_AT the last.
func Encode(st model.TrackingState, opts EncodeOptions) *gtfsrtpb.FeedMessage {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	date := opts.ServiceDate
	if date == "" {
		date = utils.Iso8601DateFromTime(now)
	}
	ts := uint64(now.Unix())

	msg := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
	}
	cur, ok := st.Current()
	if !ok {
		return msg
	}

	trip := func() *gtfsrtpb.TripDescriptor {
		return &gtfsrtpb.TripDescriptor{
			TripId:    proto.String(TripID(opts.AgencyID, st.TrainNo)),
			StartDate: proto.String(utils.ServiceDate(date)),
		}
	}
	vehicle := func() *gtfsrtpb.VehicleDescriptor {
		return &gtfsrtpb.VehicleDescriptor{Id: proto.String(st.TrainNo), Label: proto.String(st.TrainNo)}
	}

	vp := &gtfsrtpb.VehiclePosition{
		Trip:      trip(),
		Vehicle:   vehicle(),
		Timestamp: proto.Uint64(ts),
	}
	if loc, ok := tracking.Locate(st); ok {
		vp.Position = &gtfsrtpb.Position{
			Latitude:  proto.Float32(float32(loc.Lat)),
			Longitude: proto.Float32(float32(loc.Lng)),
			Bearing:   proto.Float32(float32(loc.Bearing)),
			Odometer:  proto.Float64(loc.TraveledKM * 1000),
		}
	}
	if next, ok := st.Next(); ok && st.Status != model.StatusArrived {
		vp.CurrentStatus = gtfsrtpb.VehiclePosition_IN_TRANSIT_TO.Enum()
		vp.CurrentStopSequence = proto.Uint32(uint32(st.CurrentIndex + 1))
		vp.StopId = proto.String(next.FeedStopID())
	} else {
		vp.CurrentStatus = gtfsrtpb.VehiclePosition_STOPPED_AT.Enum()
		vp.CurrentStopSequence = proto.Uint32(uint32(st.CurrentIndex))
		vp.StopId = proto.String(cur.FeedStopID())
	}

	delay := int32(st.DelayMinutes * 60)
	tu := &gtfsrtpb.TripUpdate{
		Trip:      trip(),
		Vehicle:   vehicle(),
		Timestamp: proto.Uint64(ts),
		Delay:     proto.Int32(delay),
	}
	for i := st.CurrentIndex + 1; i < len(st.Path); i++ {
		tu.StopTimeUpdate = append(tu.StopTimeUpdate, &gtfsrtpb.TripUpdate_StopTimeUpdate{
			StopSequence: proto.Uint32(uint32(i)),
			StopId:       proto.String(st.Path[i].FeedStopID()),
			Arrival:      &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(delay)},
		})
	}

	msg.Entity = []*gtfsrtpb.FeedEntity{
		{Id: proto.String("vp-" + st.TrainNo), Vehicle: vp},
		{Id: proto.String("tu-" + st.TrainNo), TripUpdate: tu},
	}
	return msg
}

// Marshal encodes st and serializes it to protobuf bytes.
func Marshal(st model.TrackingState, opts EncodeOptions) ([]byte, error) {
	return proto.Marshal(Encode(st, opts))
}
