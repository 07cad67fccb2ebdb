package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/utils"
)

// Routes maps trains to their ordered stops.
type Routes struct {
	stops     map[string]model.Station
	coords    map[string][2]float64 // stop_id -> lat,lng
	trainTrip map[string]string     // trip_short_name -> trip_id
	tripStops map[string][]stopTime
}

type stopTime struct {
	stop string
	seq  int
	dep  string
}

// FromBytes indexes a GTFS zip held in memory.
func FromBytes(b []byte) (*Routes, error) {
	return FromReader(bytes.NewReader(b), int64(len(b)))
}

// FromReader indexes a GTFS zip of the given size.
func FromReader(r io.ReaderAt, size int64) (*Routes, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open gtfs zip: %w", err)
	}
	g := &Routes{
		stops:     map[string]model.Station{},
		coords:    map[string][2]float64{},
		trainTrip: map[string]string{},
		tripStops: map[string][]stopTime{},
	}
	for _, f := range zr.File {
		switch strings.ToLower(f.Name) {
		case "stops.txt", "trips.txt", "stop_times.txt":
			if err := g.consumeCSV(f); err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name, err)
			}
		}
	}
	if len(g.tripStops) == 0 {
		return nil, errors.New("gtfs zip has no stop_times")
	}
	for _, arr := range g.tripStops {
		sort.Slice(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
	}
	return g, nil
}

func (g *Routes) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			// stops.txt often starts with a UTF-8 BOM
			if strings.EqualFold(strings.TrimPrefix(h, "\ufeff"), col) {
				return i
			}
		}
		return -1
	}
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	switch strings.ToLower(f.Name) {
	case "stops.txt":
		sID, sCode, sName := idx("stop_id"), idx("stop_code"), idx("stop_name")
		sLat, sLon := idx("stop_lat"), idx("stop_lon")
		for _, row := range rec[1:] {
			id := cell(row, sID)
			if id == "" {
				continue
			}
			code := cell(row, sCode)
			if code == "" {
				code = id
			}
			g.stops[id] = model.Station{Code: code, Name: cell(row, sName)}
			lat, errLat := strconv.ParseFloat(cell(row, sLat), 64)
			lng, errLng := strconv.ParseFloat(cell(row, sLon), 64)
			if errLat == nil && errLng == nil {
				g.coords[id] = [2]float64{lat, lng}
			}
		}
	case "trips.txt":
		tID, short := idx("trip_id"), idx("trip_short_name")
		for _, row := range rec[1:] {
			if name, trip := cell(row, short), cell(row, tID); name != "" && trip != "" {
				g.trainTrip[name] = trip
			}
		}
	case "stop_times.txt":
		tID, sID, sq, dep := idx("trip_id"), idx("stop_id"), idx("stop_sequence"), idx("departure_time")
		if tID < 0 || sID < 0 || sq < 0 {
			return errors.New("stop_times.txt needs trip_id, stop_id and stop_sequence")
		}
		for _, row := range rec[1:] {
			seq, err := strconv.Atoi(cell(row, sq))
			if err != nil {
				continue
			}
			trip := cell(row, tID)
			g.tripStops[trip] = append(g.tripStops[trip], stopTime{stop: cell(row, sID), seq: seq, dep: cell(row, dep)})
		}
	}
	return nil
}

// Route returns a fresh path for trainNo, matched by trip_short_name and
// then trip_id. Nothing is visited yet.
func (g *Routes) Route(trainNo string) (model.Path, bool) {
	trip, ok := g.trainTrip[trainNo]
	if !ok {
		trip = trainNo
	}
	arr, ok := g.tripStops[trip]
	if !ok || len(arr) == 0 {
		return nil, false
	}
	path := make(model.Path, 0, len(arr))
	for _, st := range arr {
		station := g.stops[st.stop]
		if station.Code == "" {
			station.Code = st.stop
		}
		c := g.coords[st.stop]
		path = append(path, model.StationPoint{
			Code:   station.Code,
			StopID: st.stop,
			Name:   station.Name,
			Lat:    c[0],
			Lng:    c[1],
			ETA:    clockTime(st.dep),
		})
	}
	return path, true
}

// Trains lists the train numbers with a route, sorted.
func (g *Routes) Trains() []string {
	seen := map[string]bool{}
	for name, trip := range g.trainTrip {
		if len(g.tripStops[trip]) > 0 {
			seen[name] = true
		}
	}
	if len(seen) == 0 {
		for trip := range g.tripStops {
			seen[trip] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// clockTime turns a GTFS "H:MM:SS" time, which may pass 24:00, into "HH:MM".
func clockTime(s string) string {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return ""
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return ""
	}
	return utils.FormatClock(h*60 + m)
}
