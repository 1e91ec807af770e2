package collector

// NoteRecord is the durable unit of work: one note with its six
// engagement metrics. At most one record exists per distinct title;
// records are appended, never mutated.
type NoteRecord struct {
	Title      string `json:"note_title"`
	URL        string `json:"note_url"`
	Impression int    `json:"impression"`
	Click      int    `json:"click"`
	Like       int    `json:"like"`
	Collect    int    `json:"collect"`
	Comment    int    `json:"comment"`
	Engage     int    `json:"engage"`
}

// EngagementRate is engage over impression, with a floor of 1 on the
// denominator so zero-impression notes report 0 instead of dividing by
// zero.
func (n NoteRecord) EngagementRate() float64 {
	denom := n.Impression
	if denom < 1 {
		denom = 1
	}
	return float64(n.Engage) / float64(denom)
}
