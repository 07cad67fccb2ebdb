package provider

import (
	"github.com/theoremus-urban-solutions/yatriq/model"
)

type trainRecord struct {
	train     model.Train
	seat      model.SeatPrediction
	tatkal    model.TatkalPrediction
	sentiment model.Sentiment
}

var (
	stationNDLS = model.Station{Code: "NDLS", Name: "New Delhi", City: "Delhi"}
	stationCSTM = model.Station{Code: "CSTM", Name: "Mumbai CST", City: "Mumbai"}
	stationDBRG = model.Station{Code: "DBRG", Name: "Dibrugarh", City: "Assam"}
	stationHBJ  = model.Station{Code: "HBJ", Name: "Habibganj", City: "Bhopal"}
)

// Stations is the station directory of the sample backend.
var Stations = []model.Station{
	stationNDLS,
	stationCSTM,
	stationDBRG,
	stationHBJ,
	{Code: "BPL", Name: "Bhopal Junction", City: "Bhopal"},
	{Code: "JBP", Name: "Jabalpur", City: "Madhya Pradesh"},
	{Code: "AGC", Name: "Agra Cantt", City: "Agra"},
	{Code: "GWL", Name: "Gwalior", City: "Madhya Pradesh"},
}

var catalogue = []trainRecord{
	{
		train: model.Train{
			TrainNo: "12951", TrainName: "Mumbai Rajdhani Express", Type: "Rajdhani",
			From: stationNDLS, To: stationCSTM,
			DepTime: "16:55", ArrTime: "08:35", DurationMin: 935,
			Classes: []string{"1A", "2A", "3A"},
			Fares:   map[string]int{"1A": 4565, "2A": 2890, "3A": 2095},
			Status:  "On time",
		},
		seat: model.SeatPrediction{Probability: 85, Band: "likely", Insights: []string{
			"High confirmation rate for this route", "Book 2-3 days in advance", "3AC has better availability",
		}},
		tatkal: model.TatkalPrediction{BestWindows: []model.Window{{Start: "10:00", End: "10:02"}}, Note: "Strong tatkal chances"},
		sentiment: model.Sentiment{Tag: "positive", Reason: "Punctual service, good amenities", Snippets: []string{
			"Clean coaches", "On-time arrival", "Good food quality",
		}},
	},
	{
		train: model.Train{
			TrainNo: "12423", TrainName: "Dibrugarh Rajdhani Express", Type: "Rajdhani",
			From: stationNDLS, To: stationDBRG,
			DepTime: "12:05", ArrTime: "18:30", DurationMin: 1905,
			Classes: []string{"2A", "3A", "SL"},
			Fares:   map[string]int{"2A": 3890, "3A": 2795, "SL": 895},
			Status:  "+12m", DelayMin: 12,
		},
		seat: model.SeatPrediction{Probability: 62, Band: "uncertain", Insights: []string{
			"Moderate availability", "Try flexible dates", "SL class recommended",
		}},
		tatkal: model.TatkalPrediction{BestWindows: []model.Window{{Start: "10:00", End: "10:01"}}, Note: "Quick booking required"},
		sentiment: model.Sentiment{Tag: "mixed", Reason: "Long journey, some delays reported", Snippets: []string{
			"Scenic route", "Food service adequate", "Some delays in monsoon",
		}},
	},
	{
		train: model.Train{
			TrainNo: "22691", TrainName: "Habibganj Rajdhani Express", Type: "Rajdhani",
			From: stationNDLS, To: stationHBJ,
			DepTime: "06:15", ArrTime: "15:05", DurationMin: 530,
			Classes: []string{"1A", "2A", "3A"},
			Fares:   map[string]int{"1A": 3765, "2A": 2390, "3A": 1895},
			Status:  "On time",
		},
		seat: model.SeatPrediction{Probability: 91, Band: "likely", Insights: []string{
			"Excellent availability", "Premium service", "Book with confidence",
		}},
		tatkal: model.TatkalPrediction{BestWindows: []model.Window{{Start: "10:00", End: "10:03"}}, Note: "Good tatkal success rate"},
		sentiment: model.Sentiment{Tag: "positive", Reason: "Modern train, excellent service", Snippets: []string{
			"Very clean", "Punctual", "Great staff service",
		}},
	},
}

func lookupTrain(trainNo string) (trainRecord, bool) {
	for _, rec := range catalogue {
		if rec.train.TrainNo == trainNo {
			return rec, true
		}
	}
	return trainRecord{}, false
}

// SampleBookings are the bookings the memory store starts with.
func SampleBookings() []model.Booking {
	return []model.Booking{
		{
			PNR: "4567891234", TrainNo: "12951", TrainName: "Mumbai Rajdhani Express",
			From: "NDLS", To: "CSTM", Date: "2025-01-15", Status: "Confirmed",
			Class: "3A", Coach: "B1", Seat: "45,46",
		},
		{
			PNR: "7891234567", TrainNo: "22691", TrainName: "Habibganj Rajdhani Express",
			From: "NDLS", To: "HBJ", Date: "2025-01-20", Status: "WL/23",
			Class: "2A", Coach: "-", Seat: "-",
		},
	}
}

// SamplePath is the Delhi to Mumbai route every tracked train follows.
func SamplePath() model.Path {
	return model.Path{
		{Code: "NDLS", Name: "New Delhi", Lat: 28.6139, Lng: 77.2090, ETA: "16:55"},
		{Code: "GGN", Name: "Gurgaon", Lat: 28.4595, Lng: 77.0266, ETA: "17:45"},
		{Code: "AGC", Name: "Agra Cantt", Lat: 27.1767, Lng: 78.0081, ETA: "20:15"},
		{Code: "GWL", Name: "Gwalior", Lat: 26.2183, Lng: 78.1828, ETA: "22:30"},
		{Code: "JBP", Name: "Jabalpur", Lat: 23.1645, Lng: 79.9362, ETA: "02:45"},
		{Code: "CSTM", Name: "Mumbai CST", Lat: 19.0760, Lng: 72.8777, ETA: "08:35"},
	}
}

var roundTripTemplates = []model.RoundTripBundle{
	{
		ID: 1, TotalFare: 4180, TotalDuration: 1870, ConfirmationScore: 92,
		Outbound: model.Leg{TrainNo: "12951", DepTime: "16:55", Class: "3A"},
		Return:   model.Leg{TrainNo: "12952", DepTime: "17:15", Class: "3A"},
	},
	{
		ID: 2, TotalFare: 3890, TotalDuration: 1965, ConfirmationScore: 78,
		Outbound: model.Leg{TrainNo: "22691", DepTime: "06:15", Class: "3A"},
		Return:   model.Leg{TrainNo: "22692", DepTime: "21:40", Class: "3A"},
	},
}
