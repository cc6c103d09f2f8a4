package appointments

import "errors"

var (
	// ErrNotFound is returned when no appointment matches the id.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned when a non-cancelled appointment already
	// occupies the requested date and time slot.
	ErrSlotTaken = errors.New("time slot is already booked")

	// ErrMissingFields is returned when a required booking field is absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidService is returned for a service outside the clinic's list.
	ErrInvalidService = errors.New("unknown service")

	// ErrInvalidSlot is returned for a time outside the bookable slots.
	ErrInvalidSlot = errors.New("unknown time slot")

	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidReminder is returned for reminder values not in
	// "YYYY-MM-DD HH:MM" form.
	ErrInvalidReminder = errors.New("reminder must be YYYY-MM-DD HH:MM")

	// ErrInvalidStatus is returned for an unrecognized status value.
	ErrInvalidStatus = errors.New("unknown status")

	// ErrFinalStatus is returned when mutating a cancelled or completed
	// appointment.
	ErrFinalStatus = errors.New("appointment is already cancelled or completed")
)
