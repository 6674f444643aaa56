package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/storage"
)

// citeKey builds a "lastnameYEAR" key for rec. Records without an author
// get a random "ref-" key.
func citeKey(rec reference.Record) string {
	if len(rec.Authors) == 0 {
		return "ref-" + uuid.NewString()[:8]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(rec.Authors[0].Last) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "ref-" + uuid.NewString()[:8]
	}
	if rec.Year > 0 {
		fmt.Fprint(&b, rec.Year)
	}
	return b.String()
}

// SaveAction describes what happened to one record on save.
type SaveAction struct {
	ID     string `json:"id"`
	Action string `json:"action"` // saved, skip
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

// saveRecords appends recs to the repository's JSONL file, assigning
// unique IDs and skipping DOIs that are already stored. The SQLite cache
// is rebuilt afterwards.
func saveRecords(repoRoot, path string, recs []reference.Record) []SaveAction {
	existing, err := storage.ReadAll(path)
	if err != nil {
		exitWithError(ExitDataError, "reading existing records: %v", err)
	}

	actions := make([]SaveAction, 0, len(recs))
	saved := 0
	for _, rec := range recs {
		if rec.DOI != "" {
			if idx, found := storage.FindByDOI(existing, rec.DOI); found {
				actions = append(actions, SaveAction{
					ID: existing[idx].ID, Action: "skip", Title: truncateString(rec.Title, ParseTitleMaxLen), Reason: "duplicate_doi",
				})
				continue
			}
		}
		base := rec.ID
		if base == "" {
			base = citeKey(rec)
		}
		rec.ID = storage.GenerateUniqueID(existing, base)
		if err := storage.Append(path, rec); err != nil {
			exitWithError(ExitError, "writing record %s: %v", rec.ID, err)
		}
		existing = append(existing, rec)
		saved++
		actions = append(actions, SaveAction{ID: rec.ID, Action: "saved", Title: truncateString(rec.Title, ParseTitleMaxLen)})
	}

	if saved > 0 {
		count := mustRebuild(repoRoot)
		log.Info().Int("saved", saved).Int("total", count).Msg("records saved")
	}
	return actions
}
