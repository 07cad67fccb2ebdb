package provider

import (
	"context"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// TrackQuery identifies the train to locate.
type TrackQuery struct {
	TrainNo string `json:"trainNo" validate:"required"`
	Date    string `json:"date,omitempty"`
	PNR     string `json:"pnr,omitempty" validate:"omitempty,numeric,len=10"`
}

// PositionSeed reports a live position for a train, typically decoded from a
// GTFS-Realtime feed. The index is resolved against path. ok is false when
// the train is not in the feed.
type PositionSeed interface {
	Position(ctx context.Context, trainNo string, path model.Path) (index, delayMinutes int, ok bool)
}

// RouteSource supplies the stop sequence of a train, typically indexed from
// a GTFS static feed.
type RouteSource interface {
	Route(trainNo string) (model.Path, bool)
}

// Tracking locates a train on its route.
type Tracking struct {
	rt     *Runtime
	seed   PositionSeed
	routes RouteSource
}

// Track returns the route with the train's current station and delay. The
// route comes from the route source, or is the sample path when the source
// does not know the train. Without a seed, or when the seed has no fix, the
// station and delay are drawn at random.
func (t *Tracking) Track(ctx context.Context, q TrackQuery) model.Result[model.TrackingFix] {
	return call(ctx, t.rt, model.CapTracking, q, func() (model.TrackingFix, error) {
		path := t.route(q.TrainNo)
		index, delay, ok := -1, 0, false
		if t.seed != nil {
			index, delay, ok = t.seed.Position(ctx, q.TrainNo, path)
		}
		if !ok {
			index = t.rt.intN(len(path))
			delay = t.rt.intN(30)
		}
		index = max(0, min(index, len(path)-1))
		delay = max(0, delay)
		path.MarkVisited(index)

		status := model.StatusRunning
		if index == len(path)-1 {
			status = model.StatusArrived
		}
		return model.TrackingFix{
			TrainNo:      q.TrainNo,
			Path:         path,
			CurrentIndex: index,
			DelayMinutes: delay,
			Status:       status,
		}, nil
	})
}

func (t *Tracking) route(trainNo string) model.Path {
	if t.routes != nil {
		if p, ok := t.routes.Route(trainNo); ok && len(p) > 0 {
			return p.Clone()
		}
	}
	return SamplePath()
}
