// CLAUDE:SUMMARY Pipeline façade: pages → section → blocks → fields/dates/geo → records, with run statistics.
// Package engine runs the full gazette extraction pipeline over one issue.
//
// Every stage is a pure function over in-memory text; the engine only wires
// them and counts. Data flows strictly downward, so a failure anywhere
// degrades to nulls or dropped blocks, never to a failed run.
//
// Usage:
//
//	eng := engine.New(engine.Config{})
//	res, err := eng.ProcessSource("21082025-MAT.txt", rawText)
//	fmt.Println(len(res.Records), res.Stats.BlocksDropped)
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/gaceta/blocks"
	"github.com/hazyhaar/gaceta/fields"
	"github.com/hazyhaar/gaceta/geo"
	"github.com/hazyhaar/gaceta/issue"
	"github.com/hazyhaar/gaceta/pages"
	"github.com/hazyhaar/gaceta/record"
)

// Config configures the engine. The zero value is production-ready.
type Config struct {
	Locator pages.LocatorConfig `json:"locator" yaml:"locator"`
	Blocks  blocks.Config       `json:"blocks" yaml:"blocks"`
	Fields  fields.Config       `json:"fields" yaml:"fields"`

	Logger *slog.Logger `json:"-" yaml:"-"`

	// Now supplies the provenance processing timestamp; overridable so runs
	// are reproducible under test. Defaults to time.Now in UTC.
	Now func() time.Time `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	if c.Locator.Logger == nil {
		c.Locator.Logger = c.Logger
	}
	if c.Fields.Logger == nil {
		c.Fields.Logger = c.Logger
	}
}

// Stats counts what happened during one run. Drops and recovered panics are
// statistics, not errors.
type Stats struct {
	RunID           string      `json:"run_id"`
	SourceName      string      `json:"source_name"`
	PagesTotal      int         `json:"pages_total"`
	Section         pages.Range `json:"section"`
	BlocksSeen      int         `json:"blocks_seen"`
	BlocksDropped   int         `json:"blocks_dropped"`
	BlocksRecovered int         `json:"blocks_recovered"`
	RecordsEmitted  int         `json:"records_emitted"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at"`
}

// Result is the output of processing one issue.
type Result struct {
	Records []record.Record `json:"records"`
	Stats   Stats           `json:"stats"`
}

// Engine is the extraction pipeline for gazette issues. Safe for concurrent
// use: it holds only configuration and read-only rule tables.
type Engine struct {
	cfg       Config
	extractor *fields.Extractor
	logger    *slog.Logger

	// resolvePlace is the geographic stage; a field so tests can fault it.
	resolvePlace func(text string) geo.Place
}

// New creates an Engine.
func New(cfg Config) *Engine {
	cfg.defaults()
	return &Engine{
		cfg:          cfg,
		extractor:    fields.New(cfg.Fields),
		logger:       cfg.Logger,
		resolvePlace: geo.Resolve,
	}
}

// ProcessSource derives the issue identity from the source name and runs the
// pipeline. The only error is an unparsable source name.
func (e *Engine) ProcessSource(name, raw string) (Result, error) {
	iss, err := issue.FromSource(name)
	if err != nil {
		return Result{}, err
	}
	return e.Process(iss, raw), nil
}

// Process runs the full pipeline over one issue's page-tagged text. It never
// fails: a missing section yields zero records and a structured warning.
func (e *Engine) Process(iss issue.Issue, raw string) Result {
	return e.process(iss, pages.Split(raw))
}

// ProcessPages is Process for callers whose upstream already splits pages
// into (number, text) pairs.
func (e *Engine) ProcessPages(iss issue.Issue, pp []pages.Page) Result {
	return e.process(iss, pages.FromPairs(pp))
}

func (e *Engine) process(iss issue.Issue, book *pages.Book) Result {
	stats := Stats{
		RunID:      uuid.NewString(),
		SourceName: iss.SourceName,
		StartedAt:  e.cfg.Now(),
	}

	stats.PagesTotal = book.Len()

	rng := pages.LocateSection(book, e.cfg.Locator)
	stats.Section = rng
	if rng.Empty() {
		e.logger.Warn("no procurement section in issue",
			"source", iss.SourceName, "pages", book.Len())
		stats.FinishedAt = e.cfg.Now()
		return Result{Stats: stats}
	}

	var records []record.Record
	for _, pageNum := range rng.Pages(book) {
		text, _ := book.Text(pageNum)
		for _, blk := range blocks.Split(text, pageNum, e.cfg.Blocks) {
			stats.BlocksSeen++
			rec, ok := e.processBlock(iss, blk, &stats)
			if !ok {
				stats.BlocksDropped++
				continue
			}
			records = append(records, rec)
			stats.RecordsEmitted++
		}
	}

	stats.FinishedAt = e.cfg.Now()
	e.logger.Debug("issue processed",
		"source", iss.SourceName,
		"section", stats.Section,
		"blocks", stats.BlocksSeen,
		"records", stats.RecordsEmitted)
	return Result{Records: records, Stats: stats}
}

// processBlock runs extraction for a single block. A panic escaping any
// stage is treated as zero fields recovered for that block, preserving
// forward progress over the rest of the issue.
func (e *Engine) processBlock(iss issue.Issue, blk blocks.Block, stats *Stats) (rec record.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			stats.BlocksRecovered++
			e.logger.Error("block processing panicked",
				"source", iss.SourceName, "page", blk.Page, "panic", r)
			rec, ok = record.Record{}, false
		}
	}()

	f := e.extractor.Extract(blk.Text)
	return record.Assemble(record.Input{
		Issue:       iss,
		Block:       blk,
		Fields:      f,
		Events:      record.NormalizeEvents(f),
		Place:       e.resolvePlace(blk.Text),
		ProcessedAt: e.cfg.Now(),
	})
}
