// Package insight turns dashboard data into prompts for a text-generation
// backend and returns readable reports, falling back to canned text when no
// backend is configured.
package insight

// Kind identifies which report a request produces.
type Kind string

const (
	KindDEXReport        Kind = "dex_report"
	KindMaintenancePlan  Kind = "maintenance_plan"
	KindTicketSuggestion Kind = "ticket_suggestion"
)

// AllKinds lists every Kind.
func AllKinds() []Kind {
	return []Kind{KindDEXReport, KindMaintenancePlan, KindTicketSuggestion}
}

func (k Kind) Valid() bool {
	switch k {
	case KindDEXReport, KindMaintenancePlan, KindTicketSuggestion:
		return true
	}
	return false
}

// Title is the human-readable name of the report.
func (k Kind) Title() string {
	switch k {
	case KindDEXReport:
		return "DEX Report"
	case KindMaintenancePlan:
		return "Maintenance Plan"
	case KindTicketSuggestion:
		return "Support Suggestion"
	}
	return string(k)
}

// ErrorMessage is the fixed text returned when generation fails.
func (k Kind) ErrorMessage() string {
	switch k {
	case KindDEXReport:
		return "Error: Could not generate AI report. Please check API key and network connection."
	case KindTicketSuggestion:
		return "Error: Could not get AI suggestion."
	case KindMaintenancePlan:
		return "Error: Could not generate AI plan."
	}
	return "Error: Could not generate AI content."
}

// State is where a request is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSucceeded  State = "succeeded"
	StateFallback   State = "fallback"
	StateFailed     State = "failed"
)

// Terminal reports whether the state ends a request.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFallback, StateFailed:
		return true
	}
	return false
}
