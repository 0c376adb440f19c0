package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message/header"
)

// ErrUnknownValue is returned for an enumerated fixture value that is not
// recognized.
var ErrUnknownValue = errors.New("unknown value")

type fileDoc struct {
	folderDoc `yaml:",inline"`

	Blobs    map[uint64]data     `yaml:"blobs"`
	Messages map[uint64]*itemDoc `yaml:"messages"`
}

type folderDoc struct {
	Name      string       `yaml:"name"`
	ItemCount int          `yaml:"item_count"`
	Items     []*itemDoc   `yaml:"items"`
	Folders   []*folderDoc `yaml:"folders"`
}

type extraDoc struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type itemDoc struct {
	Type             string     `yaml:"type"`
	ID               uint64     `yaml:"id"`
	Subject          text       `yaml:"subject"`
	Body             text       `yaml:"body"`
	Comment          text       `yaml:"comment"`
	BodyCharset      string     `yaml:"body_charset"`
	MessageCodepage  int        `yaml:"codepage"`
	InternetCodepage int        `yaml:"internet_codepage"`
	Created          string     `yaml:"created"`
	Modified         string     `yaml:"modified"`
	Read             bool       `yaml:"read"`
	Keywords         []string   `yaml:"keywords"`
	Extra            []extraDoc `yaml:"extra"`

	Attachments []*attachmentDoc `yaml:"attachments"`

	Email       *emailDoc       `yaml:"email"`
	Contact     *contactDoc     `yaml:"contact"`
	Appointment *appointmentDoc `yaml:"appointment"`
	Journal     *journalDoc     `yaml:"journal"`
}

type attachmentDoc struct {
	Embedded     bool     `yaml:"embedded"`
	MimeType     text     `yaml:"mime_type"`
	Filename     text     `yaml:"filename"`
	LongFilename text     `yaml:"long_filename"`
	ContentID    text     `yaml:"content_id"`
	Data         *data    `yaml:"data"`
	ID           uint64   `yaml:"id"`
	Message      *itemDoc `yaml:"message"`
}

type emailDoc struct {
	Header        text   `yaml:"header"`
	HTMLBody      text   `yaml:"html_body"`
	ReportText    text   `yaml:"report_text"`
	Sender        text   `yaml:"sender"`
	SenderName    text   `yaml:"sender_name"`
	To            text   `yaml:"to"`
	Cc            text   `yaml:"cc"`
	Bcc           text   `yaml:"bcc"`
	MessageID     text   `yaml:"message_id"`
	Sent          string `yaml:"sent"`
	RTFCompressed data   `yaml:"rtf_compressed"`
	Encrypted     data   `yaml:"encrypted_body"`
	EncryptedHTML data   `yaml:"encrypted_html_body"`
}

type addressDoc struct {
	Label      text `yaml:"label"`
	POBox      text `yaml:"po_box"`
	Street     text `yaml:"street"`
	City       text `yaml:"city"`
	State      text `yaml:"state"`
	PostalCode text `yaml:"postal_code"`
	Country    text `yaml:"country"`
}

type contactDoc struct {
	FullName   text   `yaml:"full_name"`
	Surname    text   `yaml:"surname"`
	GivenName  text   `yaml:"given_name"`
	MiddleName text   `yaml:"middle_name"`
	Prefix     text   `yaml:"prefix"`
	Suffix     text   `yaml:"suffix"`
	Nickname   text   `yaml:"nickname"`
	Email1     text   `yaml:"email1"`
	Email2     text   `yaml:"email2"`
	Email3     text   `yaml:"email3"`
	Birthday   string `yaml:"birthday"`

	Home     addressDoc `yaml:"home"`
	Business addressDoc `yaml:"business"`
	Other    addressDoc `yaml:"other"`

	BusinessFax    text `yaml:"business_fax"`
	BusinessPhone  text `yaml:"business_phone"`
	BusinessPhone2 text `yaml:"business_phone2"`
	CarPhone       text `yaml:"car_phone"`
	HomeFax        text `yaml:"home_fax"`
	HomePhone      text `yaml:"home_phone"`
	HomePhone2     text `yaml:"home_phone2"`
	ISDNPhone      text `yaml:"isdn_phone"`
	MobilePhone    text `yaml:"mobile_phone"`
	OtherPhone     text `yaml:"other_phone"`
	PagerPhone     text `yaml:"pager_phone"`
	PrimaryFax     text `yaml:"primary_fax"`
	PrimaryPhone   text `yaml:"primary_phone"`
	RadioPhone     text `yaml:"radio_phone"`
	Telex          text `yaml:"telex"`

	JobTitle       text `yaml:"job_title"`
	Profession     text `yaml:"profession"`
	AssistantName  text `yaml:"assistant_name"`
	AssistantPhone text `yaml:"assistant_phone"`
	CompanyName    text `yaml:"company_name"`
}

type recurrenceDoc struct {
	Frequency   string   `yaml:"frequency"`
	Interval    uint32   `yaml:"interval"`
	Count       uint32   `yaml:"count"`
	DayOfMonth  int      `yaml:"day_of_month"`
	MonthOfYear int      `yaml:"month_of_year"`
	Position    int      `yaml:"position"`
	Weekdays    []string `yaml:"weekdays"`
}

type appointmentDoc struct {
	Start        string         `yaml:"start"`
	End          string         `yaml:"end"`
	Location     text           `yaml:"location"`
	ShowAs       string         `yaml:"show_as"`
	Label        int            `yaml:"label"`
	Alarm        bool           `yaml:"alarm"`
	AlarmMinutes int            `yaml:"alarm_minutes"`
	Recurrence   *recurrenceDoc `yaml:"recurrence"`
}

type journalDoc struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Type  text   `yaml:"type"`
}

var showAs = map[string]item.FreeBusy{
	"":              item.FreeBusyBusy,
	"free":          item.FreeBusyFree,
	"tentative":     item.FreeBusyTentative,
	"busy":          item.FreeBusyBusy,
	"out_of_office": item.FreeBusyOutOfOffice,
}

var frequencies = map[string]item.Frequency{
	"daily":   item.Daily,
	"weekly":  item.Weekly,
	"monthly": item.Monthly,
	"yearly":  item.Yearly,
}

var weekdayMasks = map[string]uint8{
	"su": item.MaskSunday,
	"mo": item.MaskMonday,
	"tu": item.MaskTuesday,
	"we": item.MaskWednesday,
	"th": item.MaskThursday,
	"fr": item.MaskFriday,
	"sa": item.MaskSaturday,
}

// File is a loaded fixture.
type File struct {
	Root   *item.Folder
	Source *Source
}

// LoadFile reads the fixture at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fx, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fx, nil
}

// Load reads a fixture document from r.
func Load(r io.Reader) (*File, error) {
	var doc fileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	src := &Source{
		blobs:    make(map[uint64][]byte, len(doc.Blobs)),
		messages: make(map[uint64]*item.Item, len(doc.Messages)),
	}
	for id, b := range doc.Blobs {
		src.blobs[id] = b
	}
	for id, md := range doc.Messages {
		it, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", id, err)
		}
		src.messages[id] = it
	}

	root, err := doc.folderDoc.build()
	if err != nil {
		return nil, err
	}

	return &File{Root: root, Source: src}, nil
}

func (fd *folderDoc) build() (*item.Folder, error) {
	f := &item.Folder{
		Name:      fd.Name,
		ItemCount: fd.ItemCount,
		Items:     make([]*item.Item, 0, len(fd.Items)),
		Folders:   make([]*item.Folder, 0, len(fd.Folders)),
	}

	for i, id := range fd.Items {
		it, err := id.build()
		if err != nil {
			return nil, fmt.Errorf("folder %q item %d: %w", fd.Name, i+1, err)
		}
		f.Items = append(f.Items, it)
	}

	for _, sd := range fd.Folders {
		sub, err := sd.build()
		if err != nil {
			return nil, err
		}
		f.Folders = append(f.Folders, sub)
	}

	return f, nil
}

func parseTime(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := header.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

func (id *itemDoc) build() (*item.Item, error) {
	it := &item.Item{
		Type:             item.ParseType(id.Type),
		BlockID:          id.ID,
		Subject:          id.Subject.item(),
		Body:             id.Body.item(),
		Comment:          id.Comment.item(),
		BodyCharset:      id.BodyCharset,
		MessageCodepage:  id.MessageCodepage,
		InternetCodepage: id.InternetCodepage,
		Read:             id.Read,
	}

	if id.Type != "" && it.Type == item.TypeUnknown && !strings.EqualFold(id.Type, "unknown") {
		return nil, fmt.Errorf("type %q: %w", id.Type, ErrUnknownValue)
	}

	var err error
	if it.CreateDate, err = parseTime("created", id.Created); err != nil {
		return nil, err
	}
	if it.ModifyDate, err = parseTime("modified", id.Modified); err != nil {
		return nil, err
	}

	for _, kw := range id.Keywords {
		it.ExtraFields = append(it.ExtraFields, item.ExtraField{Name: item.KeywordsField, Value: kw})
	}
	for _, ef := range id.Extra {
		it.ExtraFields = append(it.ExtraFields, item.ExtraField{Name: ef.Name, Value: ef.Value})
	}

	for i, ad := range id.Attachments {
		a, err := ad.build()
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}
		it.Attachments = append(it.Attachments, a)
	}

	if id.Email != nil {
		if it.Email, err = id.Email.build(); err != nil {
			return nil, err
		}
	}
	if id.Contact != nil {
		if it.Contact, err = id.Contact.build(); err != nil {
			return nil, err
		}
	}
	if id.Appointment != nil {
		if it.Appointment, err = id.Appointment.build(); err != nil {
			return nil, err
		}
	}
	if id.Journal != nil {
		if it.Journal, err = id.Journal.build(); err != nil {
			return nil, err
		}
	}

	return it, nil
}

func (ad *attachmentDoc) build() (*item.Attachment, error) {
	a := &item.Attachment{
		Method:       item.MethodNormal,
		MimeType:     ad.MimeType.item(),
		Filename:     ad.Filename.item(),
		LongFilename: ad.LongFilename.item(),
		ContentID:    ad.ContentID.item(),
		ID:           ad.ID,
	}
	if ad.Data != nil {
		a.Data = []byte(*ad.Data)
	}

	if ad.Embedded || ad.Message != nil {
		a.Method = item.MethodEmbedded
	}
	if ad.Message != nil {
		it, err := ad.Message.build()
		if err != nil {
			return nil, fmt.Errorf("embedded message: %w", err)
		}
		a.Embedded = it
	}

	return a, nil
}

func (ed *emailDoc) build() (*item.Envelope, error) {
	e := &item.Envelope{
		Header:            ed.Header.item(),
		HTMLBody:          ed.HTMLBody.item(),
		ReportText:        ed.ReportText.item(),
		SenderAddress:     ed.Sender.item(),
		SenderName:        ed.SenderName.item(),
		SentTo:            ed.To.item(),
		Cc:                ed.Cc.item(),
		Bcc:               ed.Bcc.item(),
		MessageID:         ed.MessageID.item(),
		RTFCompressed:     ed.RTFCompressed,
		EncryptedBody:     ed.Encrypted,
		EncryptedHTMLBody: ed.EncryptedHTML,
	}

	var err error
	if e.SentDate, err = parseTime("sent", ed.Sent); err != nil {
		return nil, err
	}
	return e, nil
}

func (ad addressDoc) build() item.Address {
	return item.Address{
		Label:      ad.Label.item(),
		POBox:      ad.POBox.item(),
		Street:     ad.Street.item(),
		City:       ad.City.item(),
		State:      ad.State.item(),
		PostalCode: ad.PostalCode.item(),
		Country:    ad.Country.item(),
	}
}

func (cd *contactDoc) build() (*item.Contact, error) {
	c := &item.Contact{
		FullName:   cd.FullName.item(),
		Surname:    cd.Surname.item(),
		GivenName:  cd.GivenName.item(),
		MiddleName: cd.MiddleName.item(),
		Prefix:     cd.Prefix.item(),
		Suffix:     cd.Suffix.item(),
		Nickname:   cd.Nickname.item(),
		Email1:     cd.Email1.item(),
		Email2:     cd.Email2.item(),
		Email3:     cd.Email3.item(),

		Home:     cd.Home.build(),
		Business: cd.Business.build(),
		Other:    cd.Other.build(),

		BusinessFax:    cd.BusinessFax.item(),
		BusinessPhone:  cd.BusinessPhone.item(),
		BusinessPhone2: cd.BusinessPhone2.item(),
		CarPhone:       cd.CarPhone.item(),
		HomeFax:        cd.HomeFax.item(),
		HomePhone:      cd.HomePhone.item(),
		HomePhone2:     cd.HomePhone2.item(),
		ISDNPhone:      cd.ISDNPhone.item(),
		MobilePhone:    cd.MobilePhone.item(),
		OtherPhone:     cd.OtherPhone.item(),
		PagerPhone:     cd.PagerPhone.item(),
		PrimaryFax:     cd.PrimaryFax.item(),
		PrimaryPhone:   cd.PrimaryPhone.item(),
		RadioPhone:     cd.RadioPhone.item(),
		Telex:          cd.Telex.item(),

		JobTitle:       cd.JobTitle.item(),
		Profession:     cd.Profession.item(),
		AssistantName:  cd.AssistantName.item(),
		AssistantPhone: cd.AssistantPhone.item(),
		CompanyName:    cd.CompanyName.item(),
	}

	var err error
	if c.Birthday, err = parseTime("birthday", cd.Birthday); err != nil {
		return nil, err
	}
	return c, nil
}

func (ad *appointmentDoc) build() (*item.Appointment, error) {
	fb, ok := showAs[strings.ToLower(ad.ShowAs)]
	if !ok {
		return nil, fmt.Errorf("show_as %q: %w", ad.ShowAs, ErrUnknownValue)
	}

	a := &item.Appointment{
		Location:     ad.Location.item(),
		ShowAs:       fb,
		Label:        item.Label(ad.Label),
		Alarm:        ad.Alarm,
		AlarmMinutes: ad.AlarmMinutes,
	}

	var err error
	if a.Start, err = parseTime("start", ad.Start); err != nil {
		return nil, err
	}
	if a.End, err = parseTime("end", ad.End); err != nil {
		return nil, err
	}

	if ad.Recurrence != nil {
		if a.Recurrence, err = ad.Recurrence.build(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (rd *recurrenceDoc) build() (*item.Recurrence, error) {
	freq, ok := frequencies[strings.ToLower(rd.Frequency)]
	if !ok {
		return nil, fmt.Errorf("frequency %q: %w", rd.Frequency, ErrUnknownValue)
	}

	r := &item.Recurrence{
		Frequency:   freq,
		Interval:    rd.Interval,
		Count:       rd.Count,
		DayOfMonth:  rd.DayOfMonth,
		MonthOfYear: rd.MonthOfYear,
		Position:    rd.Position,
	}

	for _, wd := range rd.Weekdays {
		mask, ok := weekdayMasks[strings.ToLower(wd)]
		if !ok {
			return nil, fmt.Errorf("weekday %q: %w", wd, ErrUnknownValue)
		}
		r.WeekdayMask |= mask
	}

	return r, nil
}

func (jd *journalDoc) build() (*item.Journal, error) {
	j := &item.Journal{Type: jd.Type.item()}

	var err error
	if j.Start, err = parseTime("start", jd.Start); err != nil {
		return nil, err
	}
	if j.End, err = parseTime("end", jd.End); err != nil {
		return nil, err
	}
	return j, nil
}
