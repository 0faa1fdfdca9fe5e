// CLAUDE:SUMMARY Per-field rule-based extractor: ordered patterns over a record block producing a flat field map.
// Package fields extracts the individual fields of a procurement notice from
// a record block.
//
// Extraction is an ordered-rule dispatch: every field carries a list of
// candidate patterns (embedded in rules.yaml) that are tried in order, first
// match wins. The ordering encodes observed precedence between narrow and
// broad gazette phrasings. Every field is independently fallible — a miss is
// an absent key, never an error.
package fields

import (
	"log/slog"
	"regexp"
	"strings"
)

// Field keys of the flat dictionary produced by Extract.
const (
	KeyIdentifier       = "identifier"
	KeyBuyerEntity      = "buyer_entity"
	KeyBuyerSubunit     = "buyer_subunit"
	KeyTitle            = "title"
	KeyDescription      = "description"
	KeyProcedureType    = "procedure_type"
	KeyCategory         = "procurement_category"
	KeyCharacter        = "character"
	KeyReferenceCode    = "reference_code"
	KeyReducedDeadlines = "reduced_deadlines"
	KeyReductionAuth    = "reduction_authorizer"
	KeyDatePublication  = "date_publication"
	KeyDateClarify      = "date_clarification"
	KeyDateSiteVisit    = "date_site_visit"
	KeyDateBidOpening   = "date_bid_opening"
	KeyDateAward        = "date_award"
)

// DateKeys lists the raw date fields in the fixed event order.
var DateKeys = []string{
	KeyDatePublication,
	KeyDateClarify,
	KeyDateSiteVisit,
	KeyDateBidOpening,
	KeyDateAward,
}

// Fields is the flat field dictionary for one block. Absent key = field miss.
type Fields map[string]string

// Config tunes the extractor. Zero value is production-ready.
type Config struct {
	// HeaderScanLines is how many leading lines are searched for the buyer
	// entity header (default 15).
	HeaderScanLines int `json:"header_scan_lines" yaml:"header_scan_lines"`

	// TitleMaxLen is the rune length beyond which the tender object is split
	// into title + description (default 200).
	TitleMaxLen int `json:"title_max_len" yaml:"title_max_len"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.HeaderScanLines <= 0 {
		c.HeaderScanLines = 15
	}
	if c.TitleMaxLen <= 0 {
		c.TitleMaxLen = 200
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor applies the rule table to record blocks.
type Extractor struct {
	cfg Config
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg}
}

// Extract runs every rule over the block and returns the recovered fields.
// Pure: same block, same result.
func (e *Extractor) Extract(block string) Fields {
	f := Fields{}

	for _, rule := range rules.patterns {
		if v, ok := firstMatch(rule.patterns, block); ok {
			f[rule.field] = postProcess(rule.field, v)
		}
	}

	for _, rule := range rules.vocab {
		for _, opt := range rule.options {
			if opt.pattern.MatchString(block) {
				f[rule.field] = opt.value
				break
			}
		}
	}

	if entity, subunit := scanBuyerHeader(block, e.cfg.HeaderScanLines); entity != "" {
		f[KeyBuyerEntity] = entity
		if subunit != "" {
			f[KeyBuyerSubunit] = subunit
		}
	}

	if title, desc := splitObject(block, e.cfg.TitleMaxLen); title != "" {
		f[KeyTitle] = title
		if desc != "" {
			f[KeyDescription] = desc
		}
	}

	if cat := classifyCategory(block, f[KeyIdentifier]); cat != "" {
		f[KeyCategory] = cat
	}

	if _, ok := f[KeyIdentifier]; !ok {
		e.cfg.Logger.Debug("block has no tender identifier",
			"fields", len(f), "block_len", len(block))
	}

	return f
}

// firstMatch tries the ordered patterns and returns the first capture. A
// pattern without groups yields its whole match.
func firstMatch(patterns []*regexp.Regexp, block string) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		v := m[0]
		if len(m) > 1 && m[1] != "" {
			v = m[1]
		}
		v = strings.TrimSpace(v)
		if v != "" {
			return v, true
		}
	}
	return "", false
}

var (
	innerSpaceRe  = regexp.MustCompile(`\s+`)
	multiHyphenRe = regexp.MustCompile(`-{2,}`)
)

// postProcess normalizes field values that line wrapping mangles.
func postProcess(field, v string) string {
	if field == KeyIdentifier {
		v = innerSpaceRe.ReplaceAllString(v, "")
		v = multiHyphenRe.ReplaceAllString(v, "-")
	}
	return v
}
