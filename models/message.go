package models

// ContentKind is the kind of user submission being screened.
type ContentKind string

const (
	KindPost       ContentKind = "post"
	KindComment    ContentKind = "comment"
	KindDuaRequest ContentKind = "dua_request"
	KindEvent      ContentKind = "event"
)

// Valid reports whether k is one of the known kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindPost, KindComment, KindDuaRequest, KindEvent:
		return true
	}
	return false
}

// Message is an input unit for screening.
type Message struct {
	ID     int64       `json:"id"`
	Author int64       `json:"author"`
	Kind   ContentKind `json:"kind,omitempty"`
	Text   string      `json:"text"`
}

// ScanResult is the outcome of a denylist scan.
type ScanResult struct {
	Found        bool     `json:"found"`
	MatchedTerms []string `json:"matchedTerms"`
}

// Screening is the full result of screening one message.
type Screening struct {
	Message Message    `json:"message"`
	Scan    ScanResult `json:"scan"`
	Verdict Verdict    `json:"verdict"`
}
