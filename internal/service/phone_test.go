package service

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5555550123", "+15555550123"},
		{"15555550123", "+15555550123"},
		{"+1 (555) 555-0123", "+15555550123"},
		{"555.555.0123", "+15555550123"},
		{"+15555550123", "+15555550123"},
		{"1234567890", "+1234567890"},
		{"234-567-8901", "+12345678901"},
	}
	for _, tc := range cases {
		if got := NormalizePhoneNumber(tc.in); got != tc.want {
			t.Errorf("NormalizePhoneNumber(%q) want %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{"+15555550123", "+19998887777"}
	for _, phone := range valid {
		if !ValidPhoneNumber(phone) {
			t.Errorf("ValidPhoneNumber(%q) want true", phone)
		}
	}
	invalid := []string{"", "5555550123", "+1555555012", "+155555501234", "+25555550123", "+1555555012a", "+1234567890"}
	for _, phone := range invalid {
		if ValidPhoneNumber(phone) {
			t.Errorf("ValidPhoneNumber(%q) want false", phone)
		}
	}
}
