package model

// IntentKind tags the Intent variant.
type IntentKind string

const (
	IntentSearchRefinement IntentKind = "search_refinement"
	IntentPNRLookup        IntentKind = "pnr_lookup"
	IntentGeneral          IntentKind = "general"
)

// SearchRefinement adjusts the search form.
type SearchRefinement struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Class  string `json:"class"`
	Quota  string `json:"quota"`
	SortBy string `json:"sortBy"`
}

// PNRLookup asks for a booking status.
type PNRLookup struct {
	PNR string `json:"pnr"`
}

// General is the fallback with example prompts.
type General struct {
	Suggestions []string `json:"suggestions"`
}

// Intent is a closed variant; exactly the field matching Kind is set.
type Intent struct {
	Kind    IntentKind        `json:"type"`
	Message string            `json:"message"`
	Search  *SearchRefinement `json:"search,omitempty"`
	PNR     *PNRLookup        `json:"pnr,omitempty"`
	General *General          `json:"general,omitempty"`
}

// IntentContext carries the current search form.
type IntentContext struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}
