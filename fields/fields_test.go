package fields

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

const sampleBlock = "SECRETARÍA DE EJEMPLO\nUNIDAD X\nObjeto de la licitación: Adquisición de equipo médico. Volumen a adquirir: 10 piezas. LA-001-T01-E5-N-3-2025 (R.- 12345)"

func TestExtract_SampleNotice(t *testing.T) {
	// WHAT: The canonical sample notice yields identifier, buyer, subunit,
	// title, reference code and GOODS category.
	// WHY: This block shape is the single most common one in the gazette.
	f := New(Config{}).Extract(sampleBlock)

	if got := f[KeyIdentifier]; got != "LA-001-T01-E5-N-3-2025" {
		t.Errorf("identifier = %q", got)
	}
	if got := f[KeyBuyerEntity]; got != "SECRETARÍA DE EJEMPLO" {
		t.Errorf("buyer_entity = %q", got)
	}
	if got := f[KeyBuyerSubunit]; got != "UNIDAD X" {
		t.Errorf("buyer_subunit = %q", got)
	}
	if got := f[KeyTitle]; !strings.Contains(got, "Adquisición de equipo médico") {
		t.Errorf("title = %q, want the tender object", got)
	}
	if got := f[KeyReferenceCode]; got != "(R.- 12345)" {
		t.Errorf("reference_code = %q", got)
	}
	if got := f[KeyCategory]; got != CategoryGoods {
		t.Errorf("category = %q, want GOODS", got)
	}
}

func TestExtract_IdentifierNormalization(t *testing.T) {
	// WHAT: Whitespace from line wrapping is stripped, doubled hyphens collapsed.
	// WHY: Gazette columns wrap codes mid-token.
	f := New(Config{}).Extract("Convocatoria LO-009 - J0U--E27- N-1-2024 obra pública")
	if got := f[KeyIdentifier]; got != "LO-009-J0U-E27-N-1-2024" {
		t.Errorf("identifier = %q", got)
	}
}

func TestExtract_LabeledIdentifierFallback(t *testing.T) {
	// WHAT: When no CompraNet code parses, the labeled tender number is used.
	// WHY: Older issues predate the CompraNet grammar; rule order encodes
	// the narrow-before-broad precedence.
	f := New(Config{}).Extract("No. de licitación: 00641188-008-25\nObjeto de la licitación: Servicio de limpieza.")
	if got := f[KeyIdentifier]; got != "00641188-008-25" {
		t.Errorf("identifier = %q", got)
	}
}

func TestExtract_ProcedureAndCharacter(t *testing.T) {
	// WHAT: Vocabulary fields match their fixed phrases.
	// WHY: Procedure/character drive downstream filtering.
	f := New(Config{}).Extract("Se convoca a la invitación a cuando menos tres personas de carácter internacional para el servicio de vigilancia.")
	if got := f[KeyProcedureType]; got != "RESTRICTED_INVITATION" {
		t.Errorf("procedure_type = %q", got)
	}
	if got := f[KeyCharacter]; got != "INTERNATIONAL" {
		t.Errorf("character = %q", got)
	}
}

func TestExtract_ReductionOfDeadlines(t *testing.T) {
	// WHAT: The reduction flag and its authorizer are both captured.
	// WHY: Reduced-deadline notices have compressed event calendars.
	f := New(Config{}).Extract("Licitación pública nacional con reducción de plazos autorizada por el Oficial Mayor\nObjeto de la licitación: Suministro de vestuario")
	if f[KeyReducedDeadlines] != "true" {
		t.Error("reduced_deadlines not set")
	}
	if got := f[KeyReductionAuth]; !strings.Contains(got, "Oficial Mayor") {
		t.Errorf("reduction_authorizer = %q", got)
	}
}

func TestExtract_EventDateRawCapture(t *testing.T) {
	// WHAT: Event date lines are captured raw, one per event.
	// WHY: The date normalizer owns parsing; extraction only locates text.
	block := "INSTITUTO DE PRUEBAS\n" +
		"Fecha de publicación en CompraNet: 20/08/2025\n" +
		"Junta de aclaraciones: 25/08/2025, a las 10:00\n" +
		"Visita a instalaciones: No habrá visita\n" +
		"Presentación y apertura de proposiciones: 01/09/2025, a las 09:00\n" +
		"Fallo: 05/09/2025\n"
	f := New(Config{}).Extract(block)
	want := map[string]string{
		KeyDatePublication: "20/08/2025",
		KeyDateClarify:     "25/08/2025, a las 10:00",
		KeyDateSiteVisit:   "No habrá visita",
		KeyDateBidOpening:  "01/09/2025, a las 09:00",
		KeyDateAward:       "05/09/2025",
	}
	for k, v := range want {
		if got := f[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestExtract_LongObjectSplits(t *testing.T) {
	// WHAT: Objects past 200 runes break into title + description at the
	// first sentence boundary.
	// WHY: Downstream columns cap the short subject.
	long := "Objeto de la licitación: Adquisición de materiales diversos. " +
		strings.Repeat("Detalle adicional de los bienes solicitados para cubrir necesidades. ", 5) +
		"Volumen a adquirir: los indicados."
	f := New(Config{}).Extract(long)
	if got := f[KeyTitle]; got != "Adquisición de materiales diversos." {
		t.Errorf("title = %q", got)
	}
	if got := f[KeyDescription]; !strings.HasPrefix(got, "Detalle adicional") {
		t.Errorf("description = %q", got)
	}
}

func TestExtract_LongObjectSplitsAtLineWrap(t *testing.T) {
	// WHAT: A sentence boundary at end-of-line splits the object the same
	// way a mid-line boundary does, instead of hard-cutting at the cap.
	// WHY: Column-extracted gazette text wraps lines right after periods.
	long := "Objeto de la licitación: Adquisición de materiales diversos.\n" +
		strings.Repeat("Detalle adicional de los bienes solicitados para cubrir necesidades. ", 5) +
		"Volumen a adquirir: los indicados."
	f := New(Config{}).Extract(long)
	if got := f[KeyTitle]; got != "Adquisición de materiales diversos." {
		t.Errorf("title = %q", got)
	}
	if got := f[KeyDescription]; !strings.HasPrefix(got, "Detalle adicional") {
		t.Errorf("description = %q", got)
	}
}

func TestExtract_MissIsAbsent(t *testing.T) {
	// WHAT: A block with nothing recognizable yields an empty map.
	// WHY: Field misses are silent; the confidence score carries the signal.
	f := New(Config{}).Extract("texto cualquiera sin estructura reconocible")
	for _, k := range []string{KeyIdentifier, KeyBuyerEntity, KeyTitle, KeyReferenceCode} {
		if v, ok := f[k]; ok {
			t.Errorf("%s = %q, want absent", k, v)
		}
	}
}

func TestClassify_IdentifierTiebreak(t *testing.T) {
	// WHAT: Zero keyword hits fall back to the procedure-prefix letter.
	// WHY: Terse notices may name nothing but the code.
	f := New(Config{}).Extract("Convocatoria LO-009000988-E12-N-4-2025 (R.- 999)")
	if got := f[KeyCategory]; got != CategoryWorks {
		t.Errorf("category = %q, want WORKS", got)
	}
}

func TestIsInstitutionLine(t *testing.T) {
	// WHAT: Header detection requires all-caps and a known prefix.
	// WHY: The block segmenter splits on these lines as a last resort.
	if !IsInstitutionLine("COMISIÓN NACIONAL DEL AGUA") {
		t.Error("COMISIÓN NACIONAL DEL AGUA should match")
	}
	if IsInstitutionLine("Secretaría de Salud") {
		t.Error("mixed case must not match")
	}
	if IsInstitutionLine("RESUMEN DE CONVOCATORIA") {
		t.Error("non-institutional caps line must not match")
	}
}

func TestExtract_LogsMissingIdentifier(t *testing.T) {
	// WHAT: A block without any identifier emits a debug event through the
	// configured logger.
	// WHY: Identifier misses are the main extraction-quality signal when
	// tuning rules against new issues.
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ext := New(Config{Logger: logger})

	ext.Extract("SECRETARÍA DE EJEMPLO\nObjeto de la licitación: Compra de papelería.")
	if !strings.Contains(buf.String(), "no tender identifier") {
		t.Errorf("missing debug event, log = %q", buf.String())
	}

	buf.Reset()
	ext.Extract(sampleBlock)
	if strings.Contains(buf.String(), "no tender identifier") {
		t.Error("identifier hit should not log a miss")
	}
}
