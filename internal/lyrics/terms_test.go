package lyrics

import "testing"

func TestIsDJTool(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "empty", title: "", want: false},
		{name: "plain title", title: "Strings of Life", want: false},
		{name: "original mix is ordinary", title: "Energy Flash (Original Mix)", want: false},
		{name: "bpm transition", title: "Levels 100-128 Transition", want: true},
		{name: "bpm range only", title: "Buildup 85-170", want: true},
		{name: "transition word", title: "Club Transition Tool", want: true},
		{name: "extended edit", title: "One More Time (Extended Edit)", want: true},
		{name: "case insensitive", title: "ACAPELLA INTRO", want: true},
		{name: "mashup", title: "Bangers Mashup Vol. 2", want: true},
		{name: "word boundary respected", title: "Introspection", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDJTool(tt.title); got != tt.want {
				t.Errorf("IsDJTool(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestCleanTerm(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{name: "no brackets", term: "Blue Monday", want: "Blue Monday"},
		{name: "feat stripped", term: "Latch (feat. Sam Smith)", want: "Latch"},
		{name: "square brackets", term: "Windowlicker [Remastered]", want: "Windowlicker"},
		{name: "multiple brackets", term: "Song (Live) [2019]", want: "Song"},
		{name: "whitespace collapsed", term: "  Too   Many    Spaces ", want: "Too Many Spaces"},
		{name: "empty", term: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTerm(tt.term); got != tt.want {
				t.Errorf("CleanTerm(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}
