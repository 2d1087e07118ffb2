package pdxdate

import "testing"

func TestParse_Valid(t *testing.T) {
	d, err := Parse("1444.11.11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 1444 || d.Month != 11 || d.Day != 11 {
		t.Errorf("date = %v, want 1444.11.11", d)
	}
}

func TestParse_SingleDigitComponents(t *testing.T) {
	d, err := Parse("2.1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2 || d.Month != 1 || d.Day != 1 {
		t.Errorf("date = %v, want 2.1.1", d)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"1444.11", "1444.13.1", "1444.0.1", "1444.1.32", "a.b.c", ""} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestCompare(t *testing.T) {
	a := Date{1444, 11, 11}
	b := Date{1444, 11, 12}
	c := Date{1445, 1, 1}
	if !a.Before(b) || !b.Before(c) {
		t.Errorf("ordering broken: %v %v %v", a, b, c)
	}
	if a.Compare(a) != 0 {
		t.Errorf("Compare(self) = %d, want 0", a.Compare(a))
	}
	if !c.After(a) {
		t.Errorf("%v.After(%v) = false", c, a)
	}
}

func TestMaxAfterEverything(t *testing.T) {
	if !Max.After(Date{9999, 12, 31}) {
		t.Error("Max is not after 9999.12.31")
	}
}

func TestString_RoundTrip(t *testing.T) {
	d := Date{1066, 9, 25}
	got, err := Parse(d.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != d {
		t.Errorf("round trip = %v, want %v", got, d)
	}
}
