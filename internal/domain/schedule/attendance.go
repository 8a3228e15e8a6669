package schedule

// SeatAction is the ledger side effect an attendance transition carries.
type SeatAction int

const (
	// SeatNone leaves seat occupancy untouched.
	SeatNone SeatAction = iota
	// SeatRelease cancels the booking and frees the seat, if one is held.
	SeatRelease
	// SeatReacquire re-confirms the booking and must re-run the capacity
	// check; it fails when the session is full.
	SeatReacquire
)

// attendanceEdge is a single allowed edge in the attendance state machine.
type attendanceEdge struct {
	From   AttendanceStatus
	To     AttendanceStatus
	Action SeatAction
}

// attendanceEdges lists every permitted transition. Same-state requests are
// no-ops and handled before the table is consulted. SeatRelease edges only
// release when the booking still holds a confirmed seat; SeatReacquire edges
// only re-book when the seat was given up.
var attendanceEdges = []attendanceEdge{
	{From: AttendanceBooked, To: AttendanceAttended, Action: SeatNone},
	{From: AttendanceBooked, To: AttendanceNoShow, Action: SeatNone},
	{From: AttendanceBooked, To: AttendanceCancelled, Action: SeatRelease},

	{From: AttendanceAttended, To: AttendanceBooked, Action: SeatNone},
	{From: AttendanceAttended, To: AttendanceNoShow, Action: SeatNone},
	{From: AttendanceAttended, To: AttendanceCancelled, Action: SeatRelease},

	{From: AttendanceNoShow, To: AttendanceBooked, Action: SeatReacquire},
	{From: AttendanceNoShow, To: AttendanceAttended, Action: SeatNone},
	{From: AttendanceNoShow, To: AttendanceCancelled, Action: SeatRelease},

	{From: AttendanceCancelled, To: AttendanceBooked, Action: SeatReacquire},
}

// DecideTransition resolves a requested attendance transition against the
// table. seatHeld reports whether the underlying booking is still CONFIRMED;
// it downgrades conditional actions: a SeatRelease without a held seat and a
// SeatReacquire with one both collapse to SeatNone.
func DecideTransition(current, requested AttendanceStatus, seatHeld bool) (SeatAction, error) {
	if current == requested {
		return SeatNone, nil
	}
	for _, e := range attendanceEdges {
		if e.From != current || e.To != requested {
			continue
		}
		switch e.Action {
		case SeatRelease:
			if !seatHeld {
				return SeatNone, nil
			}
		case SeatReacquire:
			if seatHeld {
				return SeatNone, nil
			}
		}
		return e.Action, nil
	}
	return SeatNone, ErrInvalidTransition
}

// ValidAttendanceStatus reports whether s names a known attendance state.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendanceBooked, AttendanceAttended, AttendanceNoShow, AttendanceCancelled:
		return true
	}
	return false
}
