package path

import (
	"slices"
	"testing"
)

func TestParseArrayPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "entry path", input: `["General", "Enabled"]`, want: []string{"General", "Enabled"}},
		{name: "section path", input: `["General"]`, want: []string{"General"}},
		{name: "wildcard", input: `["*", "Enabled"]`, want: []string{"*", "Enabled"}},
		{name: "not an array", input: `General.Enabled`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArrayPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseArrayPath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if !slices.Equal(got.Segments(), tt.want) {
				t.Errorf("ParseArrayPath() = %v, want %v", got.Segments(), tt.want)
			}
		})
	}
}

func TestArrayPath_String(t *testing.T) {
	p := NewEntryPath("Section With Spaces", "Key")
	if got := p.String(); got != `["Section With Spaces","Key"]` {
		t.Errorf("String() = %s", got)
	}

	parsed, err := ParseArrayPath(p.String())
	if err != nil {
		t.Fatalf("ParseArrayPath() error = %v", err)
	}
	if !slices.Equal(parsed.Segments(), p.Segments()) {
		t.Errorf("round trip = %v, want %v", parsed.Segments(), p.Segments())
	}
}
