// Package vcard writes contact items as vCard 3.0 documents (RFC 2426).
package vcard

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
)

// ErrNotContact is returned when the item has no contact properties.
var ErrNotContact = errors.New("item has no contact properties")

// addressTypes are written in this order.
var addressTypes = []struct {
	typ string
	get func(*item.Contact) *item.Address
}{
	{"home", func(c *item.Contact) *item.Address { return &c.Home }},
	{"work", func(c *item.Contact) *item.Address { return &c.Business }},
	{"postal", func(c *item.Contact) *item.Address { return &c.Other }},
}

// phoneTypes lists the TEL lines in the order they are written, each with its
// TYPE parameter.
var phoneTypes = []struct {
	typ string
	get func(*item.Contact) item.Text
}{
	{"work,fax", func(c *item.Contact) item.Text { return c.BusinessFax }},
	{"work,voice", func(c *item.Contact) item.Text { return c.BusinessPhone }},
	{"work,voice", func(c *item.Contact) item.Text { return c.BusinessPhone2 }},
	{"car,voice", func(c *item.Contact) item.Text { return c.CarPhone }},
	{"home,fax", func(c *item.Contact) item.Text { return c.HomeFax }},
	{"home,voice", func(c *item.Contact) item.Text { return c.HomePhone }},
	{"home,voice", func(c *item.Contact) item.Text { return c.HomePhone2 }},
	{"isdn", func(c *item.Contact) item.Text { return c.ISDNPhone }},
	{"cell,voice", func(c *item.Contact) item.Text { return c.MobilePhone }},
	{"msg", func(c *item.Contact) item.Text { return c.OtherPhone }},
	{"pager", func(c *item.Contact) item.Text { return c.PagerPhone }},
	{"fax,pref", func(c *item.Contact) item.Text { return c.PrimaryFax }},
	{"phone,pref", func(c *item.Contact) item.Text { return c.PrimaryPhone }},
	{"pcs", func(c *item.Contact) item.Text { return c.RadioPhone }},
	{"bbs", func(c *item.Contact) item.Text { return c.Telex }},
}

// Write writes the contact properties of it as a vCard. The comment, then the
// body, are written as NOTE lines. Keywords become the CATEGORIES line.
func Write(w io.Writer, it *item.Item) error {
	c := it.Contact
	if c == nil {
		return ErrNotContact
	}

	text := func(t item.Text) string {
		return textenc.ItemText(it, t)
	}

	l := &textenc.Lines{}
	l.Add("BEGIN:VCARD")
	l.Add("FN:" + textenc.Escape(text(c.FullName)))
	l.Add("N:" + compound(text, c.Surname, c.GivenName, c.MiddleName, c.Prefix, c.Suffix))

	l.AddText("NICKNAME", text(c.Nickname))
	l.AddText("EMAIL", text(c.Email1))
	l.AddText("EMAIL", text(c.Email2))
	l.AddText("EMAIL", text(c.Email3))

	if c.Birthday != nil {
		l.Add("BDAY:" + textenc.FormatVCardTime(*c.Birthday))
	}

	for _, at := range addressTypes {
		a := at.get(c)
		if !a.Label.IsSet() {
			continue
		}

		// The second component, the extended address, is always empty.
		l.Add("ADR;TYPE=" + at.typ + ":" + compound(text,
			a.POBox, item.Text{}, a.Street, a.City, a.State, a.PostalCode, a.Country))
		l.Add("LABEL;TYPE=" + at.typ + ":" + textenc.Escape(text(a.Label)))
	}

	for _, pt := range phoneTypes {
		l.AddText("TEL;TYPE="+pt.typ, text(pt.get(c)))
	}

	l.AddText("TITLE", text(c.JobTitle))
	l.AddText("ROLE", text(c.Profession))

	if c.AssistantName.IsSet() || c.AssistantPhone.IsSet() {
		l.Add("AGENT:BEGIN:VCARD")
		l.AddText("FN", text(c.AssistantName))
		l.AddText("TEL", text(c.AssistantPhone))
		l.Add("END:VCARD")
	}

	l.AddText("ORG", text(c.CompanyName))
	l.AddText("NOTE", text(it.Comment))
	l.AddText("NOTE", text(it.Body))

	if line, ok := textenc.Categories(it.Keywords()); ok {
		l.Add(line)
	}

	l.Add("VERSION:3.0")
	l.Add("END:VCARD")

	_, err := l.WriteTo(w)
	return err
}

// compound joins escaped components with ";". Absent components are empty
// but keep their position.
func compound(text func(item.Text) string, parts ...item.Text) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = textenc.Escape(text(p))
	}
	return strings.Join(escaped, ";")
}
