package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

const (
	generalMessage = "I can help you find trains, check PNR status, plan round trips, and track live locations. What would you like to do?"
	fastMessage    = "I found the fastest options for you:"
	cheapMessage   = "Here are the most economical options:"

	defaultQuota = "GENERAL"
	maxGeneral   = 3
)

var (
	pnrPattern = regexp.MustCompile(`\d{10}`)
	// a station code is an upper-case word right after "to" or "from"
	toPattern   = regexp.MustCompile(`(?i:\bto)\s+([A-Z]{2,5})\b`)
	fromPattern = regexp.MustCompile(`(?i:\bfrom)\s+([A-Z]{2,5})\b`)

	fastKeywords  = []string{"fastest", "quickest", "shortest"}
	cheapKeywords = []string{"cheapest", "cheap", "budget", "lowest fare"}
)

var suggestions = []string{
	"Find fastest train to Mumbai tomorrow",
	"Cheapest AC option Delhi to Bangalore",
	"Round trip Delhi-Goa with 3 days stay",
	"Track my PNR 4567891234",
	"Best time to book Rajdhani tickets",
}

// Suggestions returns the example prompts shown next to the assistant box.
func Suggestions() []string {
	return append([]string(nil), suggestions...)
}

type refinement struct {
	sortBy, class, from, to string
	message                 string
}

var (
	fastest  = refinement{sortBy: model.SortDuration, class: "3A", from: "NDLS", to: "CSTM", message: fastMessage}
	cheapest = refinement{sortBy: model.SortFare, class: "SL", from: "NDLS", to: "BPL", message: cheapMessage}
)

// Classify maps text to an intent. ictx fills From and To of a search
// refinement; station codes named in the text take precedence over it.
func Classify(text string, ictx model.IntentContext) model.Intent {
	if pnr := pnrPattern.FindString(text); pnr != "" {
		return model.Intent{
			Kind:    model.IntentPNRLookup,
			Message: fmt.Sprintf("Let me check PNR %s for you:", pnr),
			PNR:     &model.PNRLookup{PNR: pnr},
		}
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, fastKeywords):
		return refine(text, ictx, fastest)
	case containsAny(lower, cheapKeywords):
		return refine(text, ictx, cheapest)
	}

	return model.Intent{
		Kind:    model.IntentGeneral,
		Message: generalMessage,
		General: &model.General{Suggestions: append([]string(nil), suggestions[:maxGeneral]...)},
	}
}

func refine(text string, ictx model.IntentContext, r refinement) model.Intent {
	from := firstNonEmpty(stationAfter(fromPattern, text), ictx.From, r.from)
	to := firstNonEmpty(stationAfter(toPattern, text), ictx.To, r.to)
	return model.Intent{
		Kind:    model.IntentSearchRefinement,
		Message: r.message,
		Search: &model.SearchRefinement{
			From:   from,
			To:     to,
			Class:  r.class,
			Quota:  defaultQuota,
			SortBy: r.sortBy,
		},
	}
}

func stationAfter(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
