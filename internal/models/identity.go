package models

import "regexp"

// UnknownIdentity is returned when a record carries no usable identifier at all.
const UnknownIdentity = "Unknown"

// IDKind classifies which identifier a record resolved to.
type IDKind string

// IDKind constants.
const (
	IDKindPhone  IDKind = "phone"  // real phone-style identifier
	IDKindLID    IDKind = "lid"    // opaque linked id
	IDKindLegacy IDKind = "legacy" // raw backend key
)

// Identified is implemented by every record shape that carries user identity
// fields (Message, Member, Ghost). Resolution precedence is fixed:
//
//	display name: pushname > name > display id
//	display id:   phone number > lid > raw key > "Unknown"
//
// Both resolvers never return an empty string.
type Identified interface {
	// IdentityKey returns the stable key used to merge records for the same
	// person across groups.
	IdentityKey() string
	// DisplayID returns the best available identifier.
	DisplayID() string
	// DisplayName returns the best available human-readable name.
	DisplayName() string
	// HasPhone reports whether a real phone number is known.
	HasPhone() bool
	// IsLIDOnly reports whether only the opaque lid is known.
	IsLIDOnly() bool
}

// deref returns the value of an optional string field.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ResolveID applies the phone > lid > raw precedence. The returned id is
// never empty; records with no identifier at all resolve to UnknownIdentity.
func ResolveID(number, lid, raw string) (string, IDKind) {
	switch {
	case number != "":
		return number, IDKindPhone
	case lid != "":
		return lid, IDKindLID
	case raw != "":
		return raw, IDKindLegacy
	}
	return UnknownIdentity, IDKindLegacy
}

// ResolveName applies the pushname > name > id precedence.
func ResolveName(pushName, name, id string) string {
	switch {
	case pushName != "":
		return pushName
	case name != "":
		return name
	}
	return id
}

// Message

func (m *Message) IdentityKey() string { return m.SenderID }

func (m *Message) DisplayID() string {
	id, _ := ResolveID(deref(m.SenderNumber), deref(m.SenderLID), m.SenderID)
	return id
}

func (m *Message) DisplayName() string {
	return ResolveName(deref(m.SenderPushName), deref(m.SenderName), m.DisplayID())
}

func (m *Message) HasPhone() bool { return deref(m.SenderNumber) != "" }

func (m *Message) IsLIDOnly() bool {
	return deref(m.SenderNumber) == "" && deref(m.SenderLID) != ""
}

// IDWithKind returns the resolved identifier together with its kind.
func (m *Message) IDWithKind() (string, IDKind) {
	return ResolveID(deref(m.SenderNumber), deref(m.SenderLID), m.SenderID)
}

// Member

func (m *Member) IdentityKey() string { return m.UserID }

func (m *Member) DisplayID() string {
	id, _ := ResolveID(deref(m.UserNumber), deref(m.UserLID), m.UserID)
	return id
}

func (m *Member) DisplayName() string {
	return ResolveName(deref(m.UserPushName), deref(m.UserName), m.DisplayID())
}

func (m *Member) HasPhone() bool { return deref(m.UserNumber) != "" }

func (m *Member) IsLIDOnly() bool {
	return deref(m.UserNumber) == "" && deref(m.UserLID) != ""
}

// IDWithKind returns the resolved identifier together with its kind.
func (m *Member) IDWithKind() (string, IDKind) {
	return ResolveID(deref(m.UserNumber), deref(m.UserLID), m.UserID)
}

// Ghost rows have no raw backend key, so the group name anchors the merge key.

func (g *Ghost) IdentityKey() string {
	if id := deref(g.UserNumber); id != "" {
		return id
	}
	if id := deref(g.UserLID); id != "" {
		return id
	}
	return "ghost-" + deref(g.GroupName)
}

func (g *Ghost) DisplayID() string {
	id, _ := ResolveID(deref(g.UserNumber), deref(g.UserLID), "")
	return id
}

func (g *Ghost) DisplayName() string {
	return ResolveName(deref(g.UserPushName), "", g.DisplayID())
}

func (g *Ghost) HasPhone() bool { return deref(g.UserNumber) != "" }

func (g *Ghost) IsLIDOnly() bool {
	return deref(g.UserNumber) == "" && deref(g.UserLID) != ""
}

var digitsOnly = regexp.MustCompile(`^\d{10,}$`)

// FormatPhone renders a phone identifier for display, adding the + prefix to
// long all-digit numbers. Anything else passes through untouched.
func FormatPhone(number string) string {
	if digitsOnly.MatchString(number) {
		return "+" + number
	}
	return number
}
