package a1

import "testing"

func TestAddressString(t *testing.T) {
	cases := []struct {
		addr Address
		want string
	}{
		{NewAddress(0, 0), "A1"},
		{NewAddress(1, 5), "B6"},
		{NewAddress(25, 0), "Z1"},
		{NewAddress(26, 0), "AA1"},
		{NewAddress(27, 0), "AB1"},
	}
	for _, c := range cases {
		if got := c.addr.String(); got != c.want {
			t.Errorf("Address%+v.String() = %q, want %q", c.addr, got, c.want)
		}
	}
}

func TestParseAddress(t *testing.T) {
	cases := []struct {
		in   string
		want Address
	}{
		{"A1", NewAddress(0, 0)},
		{"B6", NewAddress(1, 5)},
		{"AA1", NewAddress(26, 0)},
	}
	for _, c := range cases {
		got, err := ParseAddress(c.in)
		if err != nil {
			t.Fatalf("ParseAddress(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseAddress(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	for _, s := range []string{"A1", "F2", "Z1", "AA1", "AB1"} {
		addr, err := ParseAddress(s)
		if err != nil {
			t.Fatalf("ParseAddress(%q) error: %v", s, err)
		}
		if got := addr.String(); got != s {
			t.Errorf("round-trip %q -> %+v -> %q", s, addr, got)
		}
	}
}

func TestRowAndColumnReferences(t *testing.T) {
	if got := (Row{Row: 0}).String(); got != "1:1" {
		t.Errorf("Row{0}.String() = %q, want %q", got, "1:1")
	}
	if got := (Column{Col: 0}).String(); got != "A:A" {
		t.Errorf("Column{0}.String() = %q, want %q", got, "A:A")
	}
}

func TestShiftClampsAtZero(t *testing.T) {
	addr := NewAddress(0, 0)
	if got := addr.ShiftLeft(1); got.Col != 0 {
		t.Errorf("ShiftLeft from col 0 should clamp, got %d", got.Col)
	}
	if got := addr.ShiftUp(1); got.Row != 0 {
		t.Errorf("ShiftUp from row 0 should clamp, got %d", got.Row)
	}
}
