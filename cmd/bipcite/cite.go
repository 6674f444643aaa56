package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/clipboard"
	"github.com/matsen/bipcite/internal/config"
	"github.com/matsen/bipcite/internal/csl"
	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/render"
	"github.com/matsen/bipcite/internal/style"
)

var (
	renderStyle string
	renderLang  string
	renderOrder string
	renderCopy  bool
)

func init() {
	for _, c := range []*cobra.Command{citeCmd, bibCmd} {
		c.Flags().StringVar(&renderStyle, "style", "", "Citation style (apa, mla, harvard, chicago, vancouver); defaults to default_style")
		c.Flags().StringVar(&renderLang, "lang", "", "Document language (fa-IR, en-US, auto); defaults to default_language")
		c.Flags().StringVar(&renderOrder, "order", "", "Vancouver citation order as comma-separated IDs")
		c.Flags().BoolVar(&renderCopy, "copy", false, "Copy the output to the clipboard")
		rootCmd.AddCommand(c)
	}
}

var citeCmd = &cobra.Command{
	Use:   "cite <id>...",
	Short: "Render an in-text citation",
	Long: `Render an in-text citation for one or more stored records.

Examples:
  bipcite cite smith2020
  bipcite cite smith2020 rabiei1401 --style harvard --lang fa-IR
  bipcite cite doe2019 --style vancouver --order smith2020,doe2019`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

var bibCmd = &cobra.Command{
	Use:   "bib [id]...",
	Short: "Render a bibliography",
	Long: `Render an HTML bibliography of the given records, or of every stored
record when no IDs are given.

Non-Vancouver bibliographies are split into Persian and English sections,
each sorted by title.`,
	RunE: runBib,
}

// CiteResponse is the response for the cite command.
type CiteResponse struct {
	Citation string   `json:"citation"`
	Style    string   `json:"style"`
	Language string   `json:"language"`
	Missing  []string `json:"missing,omitempty"`
}

// BibResponse is the response for the bib command.
type BibResponse struct {
	HTML     string `json:"html"`
	Style    string `json:"style"`
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// renderContext is what cite and bib share once flags and config are resolved.
type renderContext struct {
	renderer *render.Renderer
	style    reference.Style
	lang     reference.Language
	order    *render.VancouverOrder
}

func newRenderContext(cfg *config.Config, records []reference.Record) renderContext {
	name := renderStyle
	if name == "" {
		name = cfg.DefaultStyle
	}
	st, _, ok := style.Lookup(name)
	if !ok {
		log.Warn().Str("style", name).Msg("unknown style, using APA")
	}

	hint := renderLang
	if hint == "" {
		hint = cfg.DefaultLanguage
	}
	lang := style.ResolveLanguage(hint, records)

	headings := render.EnglishHeadings
	if lang == reference.Persian {
		headings = render.PersianHeadings
	}
	if cfg.PersianHeading != "" {
		headings.Persian = cfg.PersianHeading
	}
	if cfg.EnglishHeading != "" {
		headings.English = cfg.EnglishHeading
	}

	return renderContext{
		renderer: render.New(csl.NewEngine(), log, render.WithHeadings(headings)),
		style:    st,
		lang:     lang,
		order:    render.NewVancouverOrder(splitIDs(renderOrder)...),
	}
}

func runCite(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	ids := splitIDs(strings.Join(args, ","))
	records, missing, err := db.GetByIDs(ids)
	if err != nil {
		exitWithError(ExitError, "loading records: %v", err)
	}
	for _, id := range missing {
		log.Warn().Str("id", id).Msg("record not found")
	}
	if len(records) == 0 {
		exitWithError(ExitNotFound, "unknown IDs: %s", strings.Join(missing, ", "))
	}

	rc := newRenderContext(cfg, records)
	out := rc.renderer.RenderInText(records, rc.style, recordIDs(records), rc.lang, rc.order)
	copyIfRequested(out)

	if humanOutput {
		fmt.Println(out)
		return nil
	}
	return outputJSON(CiteResponse{Citation: out, Style: rc.style.String(), Language: rc.lang.String(), Missing: missing})
}

func runBib(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var records []reference.Record
	var err error
	if len(args) == 0 {
		records, err = db.ListAll(0)
	} else {
		var missing []string
		records, missing, err = db.GetByIDs(splitIDs(strings.Join(args, ",")))
		if len(missing) > 0 && err == nil {
			exitWithError(ExitNotFound, "unknown IDs: %s", strings.Join(missing, ", "))
		}
	}
	if err != nil {
		exitWithError(ExitError, "loading records: %v", err)
	}

	rc := newRenderContext(cfg, records)
	out := rc.renderer.RenderBibliography(records, rc.style, rc.lang, rc.order)
	copyIfRequested(out)

	if humanOutput {
		fmt.Println(out)
		return nil
	}
	return outputJSON(BibResponse{HTML: out, Style: rc.style.String(), Language: rc.lang.String(), Count: len(records)})
}

func copyIfRequested(text string) {
	if !renderCopy {
		return
	}
	if err := clipboard.Copy(text); err != nil {
		log.Warn().Err(err).Msg("could not copy to clipboard")
	}
}

// recordIDs returns the IDs of records, in order. Only stored records are
// cited, so unknown IDs never take a Vancouver number.
func recordIDs(records []reference.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// splitIDs splits a comma-separated list, dropping blanks.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
