// Package importer normalizes structured "best-guess" records, such as those
// scraped by a browser extension, into stored records.
package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/bipcite/internal/author"
	"github.com/matsen/bipcite/internal/reference"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// FlexibleAuthors accepts the author shapes scrapers emit: one free-text
// string, a list of strings, or a list of name objects with
// firstname/lastname, first/last or given/family keys. Free text is kept
// raw until the record language is known.
type FlexibleAuthors struct {
	Names []reference.Author
	Raw   []string
}

type nameObject struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	First     string `json:"first"`
	Last      string `json:"last"`
	Given     string `json:"given"`
	Family    string `json:"family"`
	Literal   string `json:"literal"`
}

func (f *FlexibleAuthors) UnmarshalJSON(data []byte) error {
	*f = FlexibleAuthors{}
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			f.Raw = append(f.Raw, s)
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("cannot unmarshal %s into authors", string(data))
	}
	for i, item := range items {
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				f.Raw = append(f.Raw, s)
			}
			continue
		}
		var obj nameObject
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("author %d: cannot unmarshal %s", i+1, string(item))
		}
		a := reference.Author{
			First: firstNonEmpty(obj.Firstname, obj.First, obj.Given),
			Last:  firstNonEmpty(obj.Lastname, obj.Last, obj.Family),
		}
		switch {
		case a.Last != "":
			f.Names = append(f.Names, a)
		case obj.Literal != "":
			f.Raw = append(f.Raw, obj.Literal)
		}
	}
	return nil
}

// Resolve returns the structured names followed by the free-text names
// segmented in the conventions of lang.
func (f FlexibleAuthors) Resolve(lang reference.Language) []reference.Author {
	out := make([]reference.Author, 0, len(f.Names))
	out = append(out, f.Names...)
	for _, raw := range f.Raw {
		out = append(out, author.Segment(raw, lang)...)
	}
	return out
}

// text returns all author text, for language detection.
func (f FlexibleAuthors) text() string {
	parts := append([]string(nil), f.Raw...)
	for _, a := range f.Names {
		parts = append(parts, a.Full())
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
