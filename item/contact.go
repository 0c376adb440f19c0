package item

import "time"

// Address is one postal address of a contact. Label is the free-form
// formatted address; the remaining fields are its structured components.
type Address struct {
	Label      Text
	POBox      Text
	Street     Text
	City       Text
	State      Text
	PostalCode Text
	Country    Text
}

// Contact holds the properties of a contact item.
type Contact struct {
	FullName   Text
	Surname    Text
	GivenName  Text
	MiddleName Text
	Prefix     Text
	Suffix     Text
	Nickname   Text

	Email1 Text
	Email2 Text
	Email3 Text

	Birthday *time.Time

	Home     Address
	Business Address
	Other    Address

	BusinessFax    Text
	BusinessPhone  Text
	BusinessPhone2 Text
	CarPhone       Text
	HomeFax        Text
	HomePhone      Text
	HomePhone2     Text
	ISDNPhone      Text
	MobilePhone    Text
	OtherPhone     Text
	PagerPhone     Text
	PrimaryFax     Text
	PrimaryPhone   Text
	RadioPhone     Text
	Telex          Text

	JobTitle   Text
	Profession Text

	AssistantName  Text
	AssistantPhone Text

	CompanyName Text
}
