package bus

import "testing"

func TestSubjects(t *testing.T) {
	if got := RoomSubject(42); got != "evt.room.42" {
		t.Errorf("RoomSubject(42) = %q", got)
	}
	if got := UserSubject(7); got != "evt.user.7" {
		t.Errorf("UserSubject(7) = %q", got)
	}
}

func TestParseSubjectID(t *testing.T) {
	tests := []struct {
		subject string
		prefix  string
		want    uint
		ok      bool
	}{
		{subject: "evt.room.42", prefix: roomSubjectPrefix, want: 42, ok: true},
		{subject: "evt.user.7", prefix: userSubjectPrefix, want: 7, ok: true},
		{subject: "evt.room.", prefix: roomSubjectPrefix, ok: false},
		{subject: "evt.room.abc", prefix: roomSubjectPrefix, ok: false},
	}

	for _, tt := range tests {
		got, ok := parseSubjectID(tt.subject, tt.prefix)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseSubjectID(%q) = (%d, %v), want (%d, %v)", tt.subject, got, ok, tt.want, tt.ok)
		}
	}
}
