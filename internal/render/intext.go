package render

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/matsen/bipcite/internal/csl"
	"github.com/matsen/bipcite/internal/localize"
	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/style"
)

// RenderInText renders one in-text citation for the records named by
// citedIDs, or for all records when citedIDs is empty.
//
// Vancouver citations number each source by its position in order; a
// source missing from order is numbered next and keeps that number for
// the rest of the document. A nil order numbers sources in citation order.
func (r *Renderer) RenderInText(records []reference.Record, st reference.Style, citedIDs []string, lang reference.Language, order *VancouverOrder) (out string) {
	cited := selectCited(records, citedIDs)

	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Str("style", st.String()).Msg("in-text render failed, using fallback")
			if st == reference.Vancouver {
				out = "[1]"
			} else {
				out = fallbackCite(cited)
			}
		}
	}()

	if st == reference.Vancouver {
		if order == nil {
			order = NewVancouverOrder()
		}
		ids := citedIDs
		if len(ids) == 0 {
			ids = recordIDs(records)
		}
		text, err := vancouverCite(ids, order)
		if err != nil {
			r.log.Warn().Err(err).Msg("in-text render failed, using fallback")
			return "[1]"
		}
		return text
	}

	if len(cited) == 0 {
		r.log.Warn().Strs("ids", citedIDs).Msg("no cited records found, using fallback")
		return fallbackCite(nil)
	}
	text, err := r.formatter.Citation(csl.FromRecords(cited), style.ID(st), lang.Locale())
	if err != nil {
		r.log.Warn().Err(err).Str("style", st.String()).Msg("in-text render failed, using fallback")
		return fallbackCite(cited)
	}
	if lang == reference.Persian {
		text = localize.Localize(text)
	}
	return text
}

var errNothingCited = errors.New("no sources cited")

// vancouverCite renders "[1,3,5]": the distinct numbers of ids, ascending.
func vancouverCite(ids []string, order *VancouverOrder) (string, error) {
	nums := make([]int, 0, len(ids))
	for _, id := range ids {
		n := order.Assign(id)
		if !slices.Contains(nums, n) {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return "", errNothingCited
	}
	slices.Sort(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

// selectCited returns the records named by ids in id order, or all records
// when ids is empty. Unknown ids are skipped.
func selectCited(records []reference.Record, ids []string) []reference.Record {
	if len(ids) == 0 {
		return records
	}
	byID := make(map[string]reference.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	out := make([]reference.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func recordIDs(records []reference.Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
