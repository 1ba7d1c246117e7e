package domain

import "time"

// Term is one academic term. Strm is the source-of-record term key; the
// active term is the one whose [TermStart, TermEnd] contains today.
type Term struct {
	Strm      int       `db:"strm" json:"strm"`
	TermName  string    `db:"term_name" json:"term_name"`
	TermStart time.Time `db:"term_start" json:"term_start"`
	TermEnd   time.Time `db:"term_end" json:"term_end"`
}
