package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/matsen/bipcite/internal/reference"
)

func TestParse_Examples(t *testing.T) {
	p := New(zerolog.Nop())

	t.Run("persian", func(t *testing.T) {
		res, err := p.Parse("ربیعی، لیلا، یوسفی خواه، سارا. بررسی جامعه شناختی قمار آنلاین. 1401؛1(1):78-101.")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if res.Record.Year != 1401 {
			t.Errorf("Year = %d, want 1401", res.Record.Year)
		}
		if res.Record.Language != reference.Persian {
			t.Errorf("Language = %v, want fa", res.Record.Language)
		}
		if len(res.Record.Authors) != 2 {
			t.Errorf("Authors = %+v", res.Record.Authors)
		}
		if res.Confidence < 55 {
			t.Errorf("Confidence = %d, want >= 55", res.Confidence)
		}
	})

	t.Run("apa", func(t *testing.T) {
		res, err := p.Parse("Smith, J., & Johnson, M. (2024). The impact of technology on education. Journal of Educational Technology, 15(3), 123-145.")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if res.DetectedStyle != reference.APA {
			t.Errorf("DetectedStyle = %v, want APA", res.DetectedStyle)
		}
		if res.Record.Year != 2024 {
			t.Errorf("Year = %d", res.Record.Year)
		}
		want := []reference.Author{{First: "J.", Last: "Smith"}, {First: "M.", Last: "Johnson"}}
		if len(res.Record.Authors) != 2 || res.Record.Authors[0] != want[0] || res.Record.Authors[1] != want[1] {
			t.Errorf("Authors = %+v, want %+v", res.Record.Authors, want)
		}
		if res.Confidence != MaxConfidence {
			t.Errorf("Confidence = %d, want %d", res.Confidence, MaxConfidence)
		}
	})
}

func TestParse_InvalidInput(t *testing.T) {
	p := New(zerolog.Nop())
	for _, in := range []string{"", "   ", "\n\t", "..."} {
		if _, err := p.Parse(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestParse_LowConfidenceStillReturns(t *testing.T) {
	res, err := New(zerolog.Nop()).Parse("xyz")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Confidence < 0 || res.Confidence > MaxConfidence {
		t.Errorf("Confidence = %d out of range", res.Confidence)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		rec  reference.Record
		want int
	}{
		{"empty", reference.Record{}, 0},
		{"short title", reference.Record{Title: "Short"}, 0},
		{"title", reference.Record{Title: "A long enough title"}, 25},
		{"year and pages", reference.Record{Year: 2020, Pages: "1-2"}, 30},
		{
			name: "all",
			rec: reference.Record{
				Authors: []reference.Author{{First: "J.", Last: "Smith"}},
				Title:   "A long enough title", Year: 2020, Venue: "V", Volume: "1",
			},
			want: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.rec); got != tt.want {
				t.Errorf("Confidence() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseAll_KeepsOrder(t *testing.T) {
	texts := []string{
		"Smith, J. (2001). First title of the batch. Venue, 1(1), 1-2.",
		"Doe, A. (2002). Second title of the batch. Venue, 2(1), 3-4.",
		"Lee, K. (2003). Third title of the batch. Venue, 3(1), 5-6.",
	}
	results, err := New(zerolog.Nop()).ParseAll(context.Background(), texts)
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	for i, want := range []int{2001, 2002, 2003} {
		if results[i].Record.Year != want {
			t.Errorf("results[%d].Year = %d, want %d", i, results[i].Record.Year, want)
		}
	}
}

func TestParseAll_InvalidEntry(t *testing.T) {
	_, err := New(zerolog.Nop()).ParseAll(context.Background(), []string{"Smith, J. (2001). Title here.", ""})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseAll() error = %v, want ErrInvalidInput", err)
	}
}
