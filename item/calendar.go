package item

import "time"

// FreeBusy is an appointment's availability classification.
type FreeBusy int

// Free/busy values as stored in the container.
const (
	FreeBusyFree FreeBusy = iota
	FreeBusyTentative
	FreeBusyBusy
	FreeBusyOutOfOffice
)

// Label is the colored label an appointment was filed under.
type Label int

// Appointment labels as stored in the container.
const (
	LabelNone Label = iota
	LabelImportant
	LabelBusiness
	LabelPersonal
	LabelVacation
	LabelMustAttend
	LabelTravelRequired
	LabelNeedsPreparation
	LabelBirthday
	LabelAnniversary
	LabelPhoneCall
)

// Frequency is the recurrence period of a RecurrencePattern.
type Frequency int

// Recurrence frequencies.
const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

// Weekday mask bits. Bit 0 is Sunday.
const (
	MaskSunday uint8 = 1 << iota
	MaskMonday
	MaskTuesday
	MaskWednesday
	MaskThursday
	MaskFriday
	MaskSaturday
)

// Recurrence is a decoded recurrence pattern. Zero values mean absent.
type Recurrence struct {
	Frequency   Frequency
	Interval    uint32
	Count       uint32
	DayOfMonth  int
	MonthOfYear int
	Position    int
	WeekdayMask uint8
}

// Appointment holds the properties of an appointment or meeting request.
type Appointment struct {
	Start    *time.Time
	End      *time.Time
	Location Text

	ShowAs FreeBusy
	Label  Label

	Alarm        bool
	AlarmMinutes int

	// Recurrence is nil for a non-recurring appointment.
	Recurrence *Recurrence
}

// Journal holds the properties of a journal entry.
type Journal struct {
	Start *time.Time
	End   *time.Time
	Type  Text
}
