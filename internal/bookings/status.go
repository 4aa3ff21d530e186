package bookings

// Status represents the payment-validation lifecycle state of a booking.
// The Indonesian identifiers are part of the persisted and external
// contract and must not be translated.
type Status string

const (
	StatusMenungguPembayaran Status = "menunggu_pembayaran"
	StatusMenungguValidasi   Status = "menunggu_validasi"
	StatusLunas              Status = "lunas"
	StatusDitolak            Status = "ditolak"
	StatusExpired            Status = "expired"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[Status][]Status{
	StatusMenungguPembayaran: {StatusMenungguValidasi, StatusExpired},
	StatusMenungguValidasi:   {StatusLunas, StatusDitolak, StatusExpired},
	StatusLunas:              {},
	StatusDitolak:            {},
	StatusExpired:            {},
}

// IsValid checks if the booking status is a recognized value
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo returns true if a transition from this status to the target is allowed
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanExpire returns true if the sweep may expire a booking in this status
func (s Status) CanExpire() bool {
	return s.CanTransitionTo(StatusExpired)
}

// Display returns the status with underscores replaced by spaces, the
// form used in user-facing messages ("menunggu pembayaran").
func (s Status) Display() string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}
