// Package calendar writes appointments and journal entries as iCalendar
// documents.
package calendar

import (
	"io"
	"strings"
	"time"

	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
)

// ProdID names this library in generated calendars.
const ProdID = "-//zostay//go-pstmail//EN"

// Alarm lead times of a day or more are bogus and ignored.
const maxAlarmMinutes = 24 * 60

// statusLines is the free/busy rule: tentative is TENTATIVE; free is
// transparent and also CONFIRMED; busy and out-of-office are CONFIRMED.
var statusLines = map[item.FreeBusy][]string{
	item.FreeBusyTentative:   {"STATUS:TENTATIVE"},
	item.FreeBusyFree:        {"TRANSP:TRANSPARENT", "STATUS:CONFIRMED"},
	item.FreeBusyBusy:        {"STATUS:CONFIRMED"},
	item.FreeBusyOutOfOffice: {"STATUS:CONFIRMED"},
}

// StatusLines returns the lines written for an appointment's free/busy
// value. Unknown values produce none.
func StatusLines(fb item.FreeBusy) []string {
	return statusLines[fb]
}

var labelCategories = map[item.Label]string{
	item.LabelImportant:        "IMPORTANT",
	item.LabelBusiness:         "BUSINESS",
	item.LabelPersonal:         "PERSONAL",
	item.LabelVacation:         "VACATION",
	item.LabelMustAttend:       "MUST-ATTEND",
	item.LabelTravelRequired:   "TRAVEL-REQUIRED",
	item.LabelNeedsPreparation: "NEEDS-PREPARATION",
	item.LabelBirthday:         "BIRTHDAY",
	item.LabelAnniversary:      "ANNIVERSARY",
	item.LabelPhoneCall:        "PHONE-CALL",
}

// CategoryLine returns the CATEGORIES line for an appointment label. Only an
// unlabeled appointment uses its keywords, falling back to CATEGORIES:NONE.
// A label the table does not know produces no line.
func CategoryLine(label item.Label, keywords []string) (string, bool) {
	if label == item.LabelNone {
		if line, ok := textenc.Categories(keywords); ok {
			return line, true
		}
		return "CATEGORIES:NONE", true
	}

	name, ok := labelCategories[label]
	if !ok {
		return "", false
	}
	return "CATEGORIES:" + name, true
}

// Writer writes iCalendar documents.
type Writer struct {
	// Now provides DTSTAMP. It defaults to time.Now.
	Now func() time.Time
}

// NewWriter returns a Writer using the system clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// Organizer is the sender of a meeting request.
type Organizer struct {
	Name    string
	Address string
}

type event struct {
	method    string
	organizer *Organizer
}

// EventOption adjusts how an appointment is written.
type EventOption func(*event)

// WithMethod sets the METHOD of the enclosing calendar, e.g. REQUEST.
func WithMethod(method string) EventOption {
	return func(ev *event) { ev.method = method }
}

// WithOrganizer adds an ORGANIZER line to the event.
func WithOrganizer(name, address string) EventOption {
	return func(ev *event) { ev.organizer = &Organizer{name, address} }
}

func (cw *Writer) now() time.Time {
	if cw.Now == nil {
		return time.Now()
	}
	return cw.Now()
}

func addTime(l *textenc.Lines, name string, t *time.Time) {
	if t != nil {
		l.Addf("%s:%s", name, textenc.FormatICalTime(*t))
	}
}

func writeLines(w io.Writer, l *textenc.Lines) error {
	_, err := l.WriteTo(w)
	return err
}

func (cw *Writer) begin(l *textenc.Lines, method string) {
	l.Add("BEGIN:VCALENDAR")
	l.Add("VERSION:2.0")
	l.Add("PRODID:" + ProdID)
	if method != "" {
		l.Add("METHOD:" + method)
	}
}

// WriteAppointment writes it as a VCALENDAR holding one VEVENT.
func (cw *Writer) WriteAppointment(w io.Writer, it *item.Item, opts ...EventOption) error {
	ev := &event{}
	for _, opt := range opts {
		opt(ev)
	}

	l := &textenc.Lines{}
	cw.begin(l, ev.method)
	cw.event(l, it, ev)
	l.Add("END:VCALENDAR")

	return writeLines(w, l)
}

func (cw *Writer) event(l *textenc.Lines, it *item.Item, ev *event) {
	l.Add("BEGIN:VEVENT")

	if org := ev.organizer; org != nil {
		name := strings.ReplaceAll(org.Name, `"`, "'")
		l.Addf("ORGANIZER;CN=\"%s\":MAILTO:%s", name, org.Address)
	}

	l.Addf("UID:%#x", it.BlockID)
	l.Addf("DTSTAMP:%s", textenc.FormatICalTime(cw.now()))
	addTime(l, "CREATED", it.CreateDate)
	addTime(l, "LAST-MOD", it.ModifyDate)
	l.AddText("SUMMARY", textenc.ItemText(it, it.Subject))
	l.AddText("DESCRIPTION", textenc.ItemText(it, it.Body))

	if app := it.Appointment; app != nil {
		addTime(l, "DTSTART;VALUE=DATE-TIME", app.Start)
		addTime(l, "DTEND;VALUE=DATE-TIME", app.End)
		l.AddText("LOCATION", textenc.ItemText(it, app.Location))

		for _, s := range StatusLines(app.ShowAs) {
			l.Add(s)
		}

		if app.Recurrence != nil {
			l.Add(RRule(app.Recurrence))
		}

		if line, ok := CategoryLine(app.Label, it.Keywords()); ok {
			l.Add(line)
		}

		if app.Alarm && app.AlarmMinutes >= 0 && app.AlarmMinutes < maxAlarmMinutes {
			l.Add("BEGIN:VALARM")
			l.Addf("TRIGGER:-PT%dM", app.AlarmMinutes)
			l.Add("ACTION:DISPLAY")
			l.Add("DESCRIPTION:Reminder")
			l.Add("END:VALARM")
		}
	}

	l.Add("END:VEVENT")
}

// WriteJournal writes it as a VCALENDAR holding one VJOURNAL.
func (cw *Writer) WriteJournal(w io.Writer, it *item.Item) error {
	l := &textenc.Lines{}
	cw.begin(l, "")

	l.Add("BEGIN:VJOURNAL")
	l.Addf("DTSTAMP:%s", textenc.FormatICalTime(cw.now()))
	addTime(l, "CREATED", it.CreateDate)
	addTime(l, "LAST-MOD", it.ModifyDate)
	l.AddText("SUMMARY", textenc.ItemText(it, it.Subject))
	l.AddText("DESCRIPTION", textenc.ItemText(it, it.Body))
	if it.Journal != nil {
		addTime(l, "DTSTART;VALUE=DATE-TIME", it.Journal.Start)
	}
	l.Add("END:VJOURNAL")

	l.Add("END:VCALENDAR")

	return writeLines(w, l)
}
