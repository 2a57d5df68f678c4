package explorer

import (
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/catalog"
)

// Ticket identifies one detail fetch. Only the ticket issued last for the
// still-selected course may apply its result.
type Ticket struct {
	CourseID int
	Seq      uint64
}

// Detail is the result of fetching a course's progression routes.
// A failed fetch carries Err and empty route lists.
type Detail struct {
	Ticket    Ticket
	Outgoing  []catalog.Route
	Incoming  []catalog.Route
	Err       string
	Completed bool
}

// Failed reports whether the fetch failed.
func (d Detail) Failed() bool {
	return d.Err != ""
}

// BeginDetail starts a detail fetch for the selected course and
// invalidates every earlier ticket.
func (s *State) BeginDetail() (Ticket, bool) {
	if !s.hasSelected {
		return Ticket{}, false
	}
	s.detailSeq++
	s.detail = &Detail{Ticket: Ticket{CourseID: s.selected, Seq: s.detailSeq}}
	return s.detail.Ticket, true
}

// ApplyDetail stores a fetched detail if its ticket is still current.
// Stale results are dropped and ApplyDetail returns false.
func (s *State) ApplyDetail(d Detail) bool {
	if !s.hasSelected || d.Ticket.CourseID != s.selected || d.Ticket.Seq != s.detailSeq {
		s.logger.Debug("discarding stale detail",
			zap.Int("courseID", d.Ticket.CourseID),
			zap.Uint64("seq", d.Ticket.Seq))
		return false
	}
	d.Completed = true
	if d.Outgoing == nil {
		d.Outgoing = []catalog.Route{}
	}
	if d.Incoming == nil {
		d.Incoming = []catalog.Route{}
	}
	s.detail = &d
	s.emit(Event{Kind: DetailChanged, CourseID: d.Ticket.CourseID})
	return true
}

// Detail returns the detail for the selected course. Loading reports a
// fetch that has begun but not yet completed.
func (s *State) Detail() (d Detail, loading bool, ok bool) {
	if s.detail == nil {
		return Detail{}, false, false
	}
	return *s.detail, !s.detail.Completed, true
}
