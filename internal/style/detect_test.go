package style

import (
	"testing"

	"github.com/matsen/bipcite/internal/reference"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  reference.Style
	}{
		{
			name:  "apa journal article",
			input: "Smith, J., & Johnson, M. (2024). The impact of technology on education. Journal of Educational Technology, 15(3), 123-145.",
			want:  reference.APA,
		},
		{
			name:  "harvard year without period",
			input: "Smith, J. and Jones, K. (2020) Understanding citation practice. London: Routledge.",
			want:  reference.Harvard,
		},
		{
			name:  "harvard unparenthesised year",
			input: "Smith, J., 2020. Understanding citation practice. London: Routledge.",
			want:  reference.Harvard,
		},
		{
			name:  "vancouver numbered",
			input: "1. Smith J, Doe A. Title of the paper. BMJ. 2020;12(3):45-67.",
			want:  reference.Vancouver,
		},
		{
			name:  "vancouver bracketed",
			input: "[12] Smith J. Another paper title. Lancet. 2019;393:100-9.",
			want:  reference.Vancouver,
		},
		{
			name:  "persian vancouver",
			input: "ربیعی، لیلا، یوسفی خواه، سارا. بررسی جامعه شناختی قمار آنلاین. 1401؛1(1):78-101.",
			want:  reference.Vancouver,
		},
		{
			name:  "mla",
			input: `Smith, John. "The Title of the Article." Journal Name, vol. 15, no. 3, 2024, pp. 123-145.`,
			want:  reference.MLA,
		},
		{
			name:  "chicago",
			input: `Smith, John. "The Title of the Article." Journal Name 15, no. 3 (2024): 123-145.`,
			want:  reference.Chicago,
		},
		{
			name:  "no signature",
			input: "just some words without structure",
			want:  reference.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.input); got != tt.want {
				t.Errorf("Detect() = %v, want %v (scores %v)", got, tt.want, Scores(tt.input))
			}
		})
	}
}

func TestDetect_TieBreaksByPriority(t *testing.T) {
	// Quoted titles score Chicago and MLA equally; Chicago ranks higher.
	input := `Smith, John. "A quoted title here"`
	scores := Scores(input)
	if scores[reference.Chicago] != scores[reference.MLA] {
		t.Fatalf("expected equal Chicago/MLA scores, got %v", scores)
	}
	if got := Detect(input); got != reference.Chicago {
		t.Errorf("Detect() = %v, want Chicago", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		wantStyle reference.Style
		wantID    string
		wantOK    bool
	}{
		{"APA", reference.APA, IDAPA, true},
		{"harvard", reference.Harvard, IDHarvard, true},
		{"  Vancouver ", reference.Vancouver, IDVancouver, true},
		{"MLA", reference.MLA, IDMLA, true},
		{"chicago", reference.Chicago, IDChicago, true},
		{"ieee", reference.APA, IDAPA, false},
		{"", reference.APA, IDAPA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, id, ok := Lookup(tt.name)
			if s != tt.wantStyle || id != tt.wantID || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%v, %q, %v), want (%v, %q, %v)",
					tt.name, s, id, ok, tt.wantStyle, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	fa := reference.Record{Language: reference.Persian}
	en := reference.Record{Language: reference.English}

	tests := []struct {
		name    string
		hint    string
		records []reference.Record
		want    reference.Language
	}{
		{"explicit persian", "fa-IR", []reference.Record{en}, reference.Persian},
		{"explicit english", "en-US", []reference.Record{fa, fa}, reference.English},
		{"auto persian majority", "auto", []reference.Record{fa, fa, en}, reference.Persian},
		{"auto tie is english", "auto", []reference.Record{fa, en}, reference.English},
		{"empty hint", "", []reference.Record{fa}, reference.Persian},
		{"no records", "auto", nil, reference.English},
		{"garbage hint falls back to majority", "!!", []reference.Record{fa}, reference.Persian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLanguage(tt.hint, tt.records); got != tt.want {
				t.Errorf("ResolveLanguage(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}
