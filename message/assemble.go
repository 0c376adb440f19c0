package message

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zostay/go-pstmail/calendar"
	"github.com/zostay/go-pstmail/internal/lzfu"
	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message/header"
)

// Errors returned by the Assembler.
var (
	// ErrNotMail is returned when the item given to WriteMessage has no mail
	// envelope.
	ErrNotMail = errors.New("item has no mail envelope")

	// ErrNestingTooDeep is logged when an embedded message is nested deeper
	// than the assembler allows. The part is skipped.
	ErrNestingTooDeep = errors.New("embedded messages nested too deeply")
)

// Names and types of synthetic attachments.
const (
	RTFBodyName = "rtf-body.rtf"
	RTFBodyType = "application/rtf"
)

// Forensic fields record item properties mail clients have no use for.
const (
	ForensicSenderField = "X-PST-Forensic-Sender"
	ForensicBccField    = "X-PST-Forensic-Bcc"
)

// DefaultMaxDepth is how deeply embedded messages may nest before they are
// skipped.
const DefaultMaxDepth = 32

// State is a step of assembling one message. A message only ever moves
// forward through the states.
type State int

// The assembly states, in order.
const (
	StateStart State = iota
	StateHeadersResolved
	StateEnvelopeWritten
	StateBodyWritten
	StateAttachmentsWritten
	StateClosed
)

var stateNames = [...]string{
	"start",
	"headers resolved",
	"envelope written",
	"body written",
	"attachments written",
	"closed",
}

// String names the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Assembler writes mail items as RFC822 documents. An Assembler holds no state
// between messages and may be reused.
type Assembler struct {
	logger   zerolog.Logger
	src      item.Source
	cal      *calendar.Writer
	maxDepth int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger warnings about skipped parts are written to.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger.With().Str("component", "message_assembler").Logger()
	}
}

// WithSource sets where attachment bytes and embedded items come from. The
// default serves only what the items carry in memory.
func WithSource(src item.Source) Option {
	return func(a *Assembler) { a.src = src }
}

// WithCalendar sets the writer used for meeting request calendars.
func WithCalendar(cw *calendar.Writer) Option {
	return func(a *Assembler) { a.cal = cw }
}

// WithMaxDepth sets how deeply embedded messages may nest.
func WithMaxDepth(n int) Option {
	return func(a *Assembler) { a.maxDepth = n }
}

// NewAssembler returns an Assembler configured by opts.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		logger:   zerolog.Nop(),
		src:      item.InlineSource{},
		cal:      calendar.NewWriter(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// session is the assembly of one outer message and all of the messages
// embedded within it. They share the output and the carried header context.
type session struct {
	a   *Assembler
	o   *output
	ctx *Context
}

// envelope is what is known about a message's headers once they are resolved.
type envelope struct {
	// block is the recovered header block, or nil when every field is
	// synthesized.
	block *header.Block

	charset    string
	reportType string
	sender     string
	bounds     Boundaries
}

// WriteMessage writes it to w as a complete RFC822 document, including every
// embedded message. Parts that cannot be written are logged and skipped. An
// error is returned only when it is not a mail item or w fails.
//
// The item is modified: synthetic attachments are put at the front of its
// attachment list and its encrypted body buffers are cleared.
func (a *Assembler) WriteMessage(w io.Writer, it *item.Item) error {
	if it.Email == nil {
		return ErrNotMail
	}

	s := &session{
		a:   a,
		o:   &output{w: w},
		ctx: &Context{},
	}

	return s.write(it, 0)
}

// write assembles it at the given nesting depth.
func (s *session) write(it *item.Item, depth int) error {
	state := StateStart
	failed := func(err error) error {
		return fmt.Errorf("message %#x at depth %d failed after %s: %w", it.BlockID, depth, state, err)
	}

	env := s.resolveHeaders(it)
	state = StateHeadersResolved

	s.writeEnvelope(it, env)
	if s.o.err != nil {
		return failed(s.o.err)
	}
	state = StateEnvelopeWritten

	s.writeBodies(it, env)
	if s.o.err != nil {
		return failed(s.o.err)
	}
	state = StateBodyWritten

	s.promote(it)

	if it.Type == item.TypeSchedule {
		s.writeSchedule(it, env)
	}

	if err := s.writeAttachments(it, env.bounds.Outer, depth); err != nil {
		return failed(err)
	}
	state = StateAttachmentsWritten

	s.o.closeBoundary(env.bounds.Outer)
	s.o.print("\n")
	if s.o.err != nil {
		return failed(s.o.err)
	}

	return nil
}

// resolveHeaders picks the header source of it: its own recovered header
// block when that is valid, else the block the carried context points at,
// else nothing. It then works out the charset, report-type, sender and
// boundaries.
func (s *session) resolveHeaders(it *item.Item) *envelope {
	env := &envelope{
		charset:    textenc.DefaultCharset(it),
		reportType: header.DefaultReportType,
	}

	own := textenc.ItemText(it, it.Email.Header)
	if header.Valid(own) {
		env.block = header.Analyze(own)
		s.ctx.Seed(env.block.Rest)
	} else if carried, ok := s.ctx.fallback(); ok {
		env.block = header.Analyze(carried)
		s.ctx.consume(env.block)
		s.a.logger.Debug().Uint64("item_id", it.BlockID).Msg("using carried header block")
	}

	existing := textenc.ItemText(it, it.Email.SenderAddress)
	if env.block != nil {
		if env.block.Charset != "" {
			env.charset = env.block.Charset
		}
		if env.block.ReportType != "" {
			env.reportType = env.block.ReportType
		}
		env.sender = env.block.Sender(existing)
	} else {
		env.sender = header.DeriveSender("", existing)
	}

	env.bounds = AllocateBoundaries(it)

	return env
}

// writeEnvelope writes the header of the message: the recovered block, the
// read status, any canonical field the block lacks, the forensic fields and
// the MIME fields.
func (s *session) writeEnvelope(it *item.Item, env *envelope) {
	o := s.o
	em := it.Email

	var has header.Presence
	if env.block != nil {
		o.print(env.block.Text)
		has = env.block.Has
	}

	if it.Read {
		o.field("Status", "RO")
	}

	if !has.From {
		if name := textenc.ItemText(it, em.SenderName); name != "" {
			o.field("From", textenc.EncodeWord(name)+" <"+env.sender+">")
		} else {
			o.field("From", "<"+env.sender+">")
		}
	}

	if !has.Subject {
		o.field("Subject", textenc.EncodeWord(textenc.ItemText(it, it.Subject)))
	}

	if !has.To && em.SentTo.IsSet() {
		o.field("To", textenc.EncodeAddress(textenc.ItemText(it, em.SentTo)))
	}

	if !has.Cc && em.Cc.IsSet() {
		o.field("Cc", textenc.EncodeAddress(textenc.ItemText(it, em.Cc)))
	}

	if !has.Date && em.SentDate != nil {
		o.field("Date", header.FormatTime(*em.SentDate))
	}

	if !has.MessageID && em.MessageID.IsSet() {
		o.field("Message-Id", textenc.ItemText(it, em.MessageID))
	}

	sender := textenc.ItemText(it, em.SenderAddress)
	if sender != "" && sender != "." && !strings.Contains(sender, "@") {
		o.field(ForensicSenderField, sender)
	}

	if em.Bcc.IsSet() {
		o.field(ForensicBccField, textenc.ItemText(it, em.Bcc))
	}

	o.field("MIME-Version", "1.0")
	o.field("Content-Type", OuterContentType(it.Type, env.reportType, env.bounds.Outer))
	o.print("\n")
}

// writeBodies writes the report text of a report, then the plain and HTML
// bodies. When both bodies exist they nest in a multipart/alternative part.
func (s *session) writeBodies(it *item.Item, env *envelope) {
	o := s.o
	em := it.Email
	b := env.bounds

	if it.Type == item.TypeReport && em.ReportText.IsSet() {
		writeBodyPart(o, b.Outer, TextPlain, env.charset, em.ReportText)
		o.print("\n")
	}

	if b.HasAlt() {
		o.boundary(b.Outer)
		o.field("Content-Type", fmt.Sprintf("multipart/alternative;\n\tboundary=\"%s\"", b.Alt))
	}

	if it.Body.IsSet() {
		writeBodyPart(o, b.Body(), TextPlain, env.charset, it.Body)
	}

	if em.HTMLBody.IsSet() {
		writeBodyPart(o, b.Body(), TextHTML, env.charset, em.HTMLBody)
	}

	if b.HasAlt() {
		o.closeBoundary(b.Alt)
	}
}

// promote turns the compressed RTF body and the encrypted bodies into
// attachments. Each is put at the front of the list, so the last promoted is
// written first. The encrypted buffers are cleared so they are never read as
// text.
func (s *session) promote(it *item.Item) {
	em := it.Email

	if em.RTFCompressed != nil {
		rtf, err := lzfu.Decompress(em.RTFCompressed)
		if err != nil {
			s.a.logger.Warn().Err(err).Uint64("item_id", it.BlockID).Msg("skipping compressed RTF body")
		} else {
			it.PrependAttachment(&item.Attachment{
				Data:         rtf,
				LongFilename: item.UTF8Text(RTFBodyName),
				MimeType:     item.UTF8Text(RTFBodyType),
			})
		}
	}

	if em.EncryptedBody != nil {
		it.PrependAttachment(&item.Attachment{Data: em.EncryptedBody})
		em.EncryptedBody = nil
	}

	if em.EncryptedHTMLBody != nil {
		it.PrependAttachment(&item.Attachment{Data: em.EncryptedHTMLBody})
		em.EncryptedHTMLBody = nil
	}
}
