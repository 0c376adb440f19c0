package message

import (
	"bytes"
	"fmt"

	"github.com/zostay/go-pstmail/calendar"
	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
)

// ScheduleMethod is the iTIP method of the calendar parts written for a
// meeting request.
const ScheduleMethod = "REQUEST"

// writeSchedule writes the calendar of a meeting request twice: once inline
// as text/calendar and once as an .ics attachment. Both copies are the same
// document. Nothing is written if the item has no appointment.
func (s *session) writeSchedule(it *item.Item, env *envelope) {
	if it.Appointment == nil {
		return
	}

	ics := &bytes.Buffer{}
	err := s.a.cal.WriteAppointment(ics, it,
		calendar.WithMethod(ScheduleMethod),
		calendar.WithOrganizer(textenc.ItemText(it, it.Email.SenderName), env.sender),
	)
	if err != nil {
		s.a.logger.Warn().Err(err).Uint64("item_id", it.BlockID).Msg("skipping meeting request calendar")
		return
	}

	o := s.o
	o.boundary(env.bounds.Outer)
	o.field("Content-Type", fmt.Sprintf(`text/calendar; method="%s"; charset="%s"`, ScheduleMethod, textenc.UTF8))
	o.print("\n")
	o.print(ics.String())
	o.print("\n")

	name := fmt.Sprintf("i%d.ics", Nonce())
	o.boundary(env.bounds.Outer)
	o.field("Content-Type", fmt.Sprintf(`text/calendar; charset="%s"; name="%s"`, textenc.UTF8, name))
	o.field("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	o.print("\n")
	o.print(ics.String())
	o.print("\n")
}
