// Package parser turns raw citation text into a structured record with a
// detected style and an advisory confidence score.
package parser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/bipcite/internal/extract"
	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/style"
)

// ErrInvalidInput is returned for empty or non-textual input.
var ErrInvalidInput = errors.New("invalid input: citation text is empty")

// Confidence weights, summed and capped at MaxConfidence.
const (
	authorsWeight = 30
	titleWeight   = 25
	yearWeight    = 20
	venueWeight   = 15
	locatorWeight = 10 // volume or pages

	MaxConfidence = 100
)

// Result is the outcome of parsing one citation.
type Result struct {
	Record        reference.Record `json:"record"`
	DetectedStyle reference.Style  `json:"detected_style"`
	Confidence    int              `json:"confidence"`
}

// Parser parses citations. The zero value is not usable; use New.
type Parser struct {
	log     zerolog.Logger
	workers int
}

// New returns a Parser that logs through log.
func New(log zerolog.Logger) *Parser {
	return &Parser{log: log, workers: runtime.GOMAXPROCS(0)}
}

// Parse detects the style and language of raw and extracts its fields.
// It fails only when raw has no textual content.
func (p *Parser) Parse(raw string) (Result, error) {
	if !hasText(raw) {
		return Result{}, ErrInvalidInput
	}

	st := style.Detect(raw)
	lang := reference.DetectLanguage(raw)
	rec := extract.Extract(raw, st, lang)

	res := Result{Record: rec, DetectedStyle: st, Confidence: Confidence(rec)}
	p.log.Debug().
		Str("style", st.String()).
		Str("language", lang.String()).
		Int("authors", len(rec.Authors)).
		Int("confidence", res.Confidence).
		Msg("parsed citation")
	return res, nil
}

// ParseAll parses texts concurrently. Results keep the order of texts.
func (p *Parser) ParseAll(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(text)
			if err != nil {
				return fmt.Errorf("citation %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Confidence scores how completely rec was extracted.
func Confidence(rec reference.Record) int {
	score := 0
	if len(rec.Authors) > 0 {
		score += authorsWeight
	}
	if reference.RuneLen(rec.Title) > 10 {
		score += titleWeight
	}
	if rec.Year != 0 {
		score += yearWeight
	}
	if rec.Venue != "" {
		score += venueWeight
	}
	if rec.Volume != "" || rec.Pages != "" {
		score += locatorWeight
	}
	return min(score, MaxConfidence)
}

func hasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
