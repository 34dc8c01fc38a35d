package formrig

import "time"

// HistoryLimit bounds the number of passes a History keeps.
const HistoryLimit = 16

// History is the validation record a field accumulated under its current
// configuration. Replacing the configuration starts a new History.
type History struct {
	Configuration string       `json:"configuration"`
	Passes        int          `json:"passes"`          // Total passes under Configuration
	Recent        []PassRecord `json:"recent,omitempty"` // Oldest first, at most HistoryLimit
}

// PassRecord describes one completed validation pass.
type PassRecord struct {
	At          time.Time `json:"at"`
	Valid       bool      `json:"valid"`
	BrokenRules []string  `json:"brokenRules,omitempty"`
	Transformed bool      `json:"transformed,omitempty"` // The transform changed the value
}

// Last returns the most recent pass, if any.
func (h History) Last() (PassRecord, bool) {
	if len(h.Recent) == 0 {
		return PassRecord{}, false
	}
	return h.Recent[len(h.Recent)-1], true
}

func (h *History) record(rec PassRecord) {
	h.Passes++
	h.Recent = append(h.Recent, rec)
	if len(h.Recent) > HistoryLimit {
		h.Recent = append([]PassRecord(nil), h.Recent[len(h.Recent)-HistoryLimit:]...)
	}
}

func (h History) clone() History {
	h.Recent = append([]PassRecord(nil), h.Recent...)
	return h
}
