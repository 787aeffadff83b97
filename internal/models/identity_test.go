package models

import (
	"testing"
)

func strptr(s string) *string { return &s }

// resolution precedence: phone > lid > raw key, pushname > name > id
func TestMessage_DisplayID(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "phone wins over lid and raw id",
			msg: Message{
				SenderID:     "123@c.us",
				SenderNumber: strptr("4915112345678"),
				SenderLID:    strptr("98765@lid"),
			},
			want: "4915112345678",
		},
		{
			name: "lid when no phone",
			msg: Message{
				SenderID:  "123@c.us",
				SenderLID: strptr("98765@lid"),
			},
			want: "98765@lid",
		},
		{
			name: "raw sender id as last resort",
			msg: Message{
				SenderID: "123@c.us",
			},
			want: "123@c.us",
		},
		{
			name: "never empty",
			msg:  Message{},
			want: UnknownIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.DisplayID(); got != tt.want {
				t.Errorf("DisplayID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMember_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
	}{
		{
			name: "pushname preferred",
			member: Member{
				UserID:       "u1",
				UserName:     strptr("Stored Name"),
				UserPushName: strptr("Push Name"),
			},
			want: "Push Name",
		},
		{
			name: "stored name second",
			member: Member{
				UserID:   "u1",
				UserName: strptr("Stored Name"),
			},
			want: "Stored Name",
		},
		{
			name: "lid only resolves to the lid, not empty",
			member: Member{
				UserLID: strptr("55555@lid"),
			},
			want: "55555@lid",
		},
		{
			name:   "empty record resolves to Unknown",
			member: Member{},
			want:   UnknownIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGhost_IdentityKey(t *testing.T) {
	g := Ghost{GroupName: strptr("Family")}
	if got := g.IdentityKey(); got != "ghost-Family" {
		t.Errorf("IdentityKey() = %q, want ghost-Family", got)
	}

	g.UserLID = strptr("777@lid")
	if got := g.IdentityKey(); got != "777@lid" {
		t.Errorf("IdentityKey() = %q, want lid", got)
	}

	g.UserNumber = strptr("49151000000")
	if got := g.IdentityKey(); got != "49151000000" {
		t.Errorf("IdentityKey() = %q, want number", got)
	}
}

func TestIDWithKind(t *testing.T) {
	m := Message{SenderID: "raw", SenderLID: strptr("lid-1")}
	id, kind := m.IDWithKind()
	if id != "lid-1" || kind != IDKindLID {
		t.Errorf("IDWithKind() = (%q, %q), want (lid-1, lid)", id, kind)
	}

	if !m.IsLIDOnly() {
		t.Error("IsLIDOnly() = false, want true")
	}
	if m.HasPhone() {
		t.Error("HasPhone() = true, want false")
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4915112345678", "+4915112345678"},
		{"12345", "12345"},      // too short for a phone number
		{"98765@lid", "98765@lid"}, // not numeric
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
