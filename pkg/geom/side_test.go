package geom

import "testing"

func TestSideProperties(t *testing.T) {
	tests := []struct {
		side            Side
		wantName        string
		wantOrientation Orientation
		wantFirst       bool
		wantOpposite    Side
	}{
		{Left, "LEFT", Horizontal, true, Right},
		{Right, "RIGHT", Horizontal, false, Left},
		{Top, "TOP", Vertical, true, Bottom},
		{Bottom, "BOTTOM", Vertical, false, Top},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if got := tt.side.String(); got != tt.wantName {
				t.Errorf("String() = %q, want %q", got, tt.wantName)
			}
			if got := tt.side.Orientation(); got != tt.wantOrientation {
				t.Errorf("Orientation() = %v, want %v", got, tt.wantOrientation)
			}
			if got := tt.side.First(); got != tt.wantFirst {
				t.Errorf("First() = %v, want %v", got, tt.wantFirst)
			}
			if got := tt.side.Opposite(); got != tt.wantOpposite {
				t.Errorf("Opposite() = %v, want %v", got, tt.wantOpposite)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"LEFT", Left, false},
		{"right", Right, false},
		{"Top", Top, false},
		{"BOTTOM", Bottom, false},
		{"middle", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSideInvalidString(t *testing.T) {
	s := Side(9)
	if s.Valid() {
		t.Error("Side(9) should not be valid")
	}
	if got := s.String(); got != "Side(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestOrientationSides(t *testing.T) {
	if f, s := Horizontal.Sides(); f != Left || s != Right {
		t.Errorf("Horizontal.Sides() = %v, %v", f, s)
	}
	if f, s := Vertical.Sides(); f != Top || s != Bottom {
		t.Errorf("Vertical.Sides() = %v, %v", f, s)
	}
}

func TestSideText(t *testing.T) {
	for _, s := range []Side{Left, Right, Top, Bottom} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var got Side
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != s {
			t.Errorf("round trip of %v gave %v", s, got)
		}
	}
	if _, err := Side(9).MarshalText(); err == nil {
		t.Error("MarshalText(Side(9)) should fail")
	}
}
