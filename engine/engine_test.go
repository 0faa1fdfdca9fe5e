package engine

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/gaceta/geo"
	"github.com/hazyhaar/gaceta/issue"
	"github.com/hazyhaar/gaceta/pages"
	"github.com/hazyhaar/gaceta/record"
)

const goodsBlock = "SECRETARÍA DE EJEMPLO\nUNIDAD X\nObjeto de la licitación: Adquisición de equipo médico. Volumen a adquirir: 10 piezas. LA-001-T01-E5-N-3-2025 (R.- 12345)"

const servicesBlock = "INSTITUTO NACIONAL DE PRUEBAS\nDIRECCIÓN DE RECURSOS MATERIALES\n" +
	"Objeto de la licitación: Servicio de limpieza integral de oficinas administrativas. Volumen a adquirir: los detalles se determinan en la convocatoria.\n" +
	"Junta de aclaraciones: 25/08/2025, a las 10:00\n" +
	"Visita a instalaciones: No habrá visita\n" +
	"Presentación y apertura de proposiciones: 01/09/2025, a las 09:00\n" +
	"Licitación pública nacional LA-002-S01-E7-N-9-2025, en el Estado de Jalisco, municipio de Guadalajara (R.- 54321)"

const worksBlock = "COMISIÓN NACIONAL DEL AGUA\nSUBDIRECCIÓN GENERAL DE OBRA\n" +
	"Objeto de la licitación: Rehabilitación de la planta potabilizadora. Volumen de obra: los indicados en la convocatoria.\n" +
	"Fallo: 05/09/2025\nLO-016-B00-E11-N-2-2025 (R.- 777)"

// testIssue assembles a five-page synthetic issue: index on page 1,
// procurement notices on pages 3-4, judicial notices from page 5.
const testIssue = "[PAGE 1]INDICE\n" +
	"CONVOCATORIAS PARA CONCURSOS DE ADQUISICIONES, ARRENDAMIENTOS, OBRAS Y SERVICIOS DEL SECTOR PUBLICO ........ 3\n" +
	"AVISOS JUDICIALES Y GENERALES ........ 5\n" +
	"[PAGE 2]Sección previa sin convocatorias.\n" +
	"[PAGE 3]" + goodsBlock + "\n" + servicesBlock + "\npie de página\n" +
	"[PAGE 4]" + worksBlock + "\npie\n" +
	"[PAGE 5]AVISOS JUDICIALES Y GENERALES\nEdicto: se notifica...\n"

func fixedEngine() *Engine {
	return New(Config{
		Now: func() time.Time { return time.Date(2025, 8, 21, 12, 0, 0, 0, time.UTC) },
	})
}

func mustIssue(t *testing.T) issue.Issue {
	t.Helper()
	iss, err := issue.FromSource("21082025-MAT.txt")
	if err != nil {
		t.Fatal(err)
	}
	return iss
}

func TestProcess_FullIssue(t *testing.T) {
	// WHAT: The synthetic issue yields three records with the expected
	// identifiers, categories and placement.
	// WHY: End-to-end wiring of every stage on one realistic document.
	res := fixedEngine().Process(mustIssue(t), testIssue)

	if len(res.Records) != 3 {
		t.Fatalf("records = %d, want 3 (stats: %+v)", len(res.Records), res.Stats)
	}
	if res.Stats.Section.First != 3 || res.Stats.Section.Last != 4 {
		t.Errorf("section = %+v, want 3-4", res.Stats.Section)
	}

	goods := res.Records[0]
	if goods.Identifier != "LA-001-T01-E5-N-3-2025" {
		t.Errorf("identifier = %q", goods.Identifier)
	}
	if goods.BuyerEntity != "SECRETARÍA DE EJEMPLO" || goods.BuyerSubunit != "UNIDAD X" {
		t.Errorf("buyer = %q / %q", goods.BuyerEntity, goods.BuyerSubunit)
	}
	if !strings.Contains(goods.Title, "Adquisición de equipo médico") {
		t.Errorf("title = %q", goods.Title)
	}
	if goods.ReferenceCode != "(R.- 12345)" {
		t.Errorf("reference_code = %q", goods.ReferenceCode)
	}
	if goods.Category != record.CategoryGoods {
		t.Errorf("category = %q", goods.Category)
	}
	if goods.Provenance.PageNumber != 3 {
		t.Errorf("page = %d", goods.Provenance.PageNumber)
	}

	svc := res.Records[1]
	if svc.Category != record.CategoryServices {
		t.Errorf("services category = %q", svc.Category)
	}
	if svc.Region != "Jalisco" || svc.Municipality != "Guadalajara" {
		t.Errorf("place = %q / %q", svc.Region, svc.Municipality)
	}
	if got := svc.EventDates[record.EventClarification].Canonical; got != "2025-08-25T10:00:00" {
		t.Errorf("clarification = %q", got)
	}
	if got := svc.EventDates[record.EventSiteVisit].Canonical; got != "NOT_APPLICABLE" {
		t.Errorf("site visit = %q", got)
	}
	if got := svc.EventDates[record.EventAward]; got != (record.EventDate{}) {
		t.Errorf("award should be null, got %+v", got)
	}

	works := res.Records[2]
	if works.Category != record.CategoryWorks {
		t.Errorf("works category = %q", works.Category)
	}
	if works.Provenance.PageNumber != 4 {
		t.Errorf("works page = %d", works.Provenance.PageNumber)
	}
	if got := works.EventDates[record.EventAward].Canonical; got != "2025-09-05T00:00:00" {
		t.Errorf("award = %q", got)
	}

	if res.Stats.RecordsEmitted != 3 || res.Stats.BlocksSeen < 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	// WHAT: Two runs over byte-identical input produce deep-equal records.
	// WHY: No nondeterminism anywhere in the pipeline; only the run ID and
	// wall-clock stats may differ, and the clock is pinned here.
	eng := fixedEngine()
	a := eng.Process(mustIssue(t), testIssue)
	b := eng.Process(mustIssue(t), testIssue)
	if !reflect.DeepEqual(a.Records, b.Records) {
		t.Error("records differ between identical runs")
	}
	if a.Stats.RunID == b.Stats.RunID {
		t.Error("run IDs must be unique per run")
	}
}

func TestProcess_NoSection(t *testing.T) {
	// WHAT: An issue without the procurement section yields zero records and
	// an empty range, not an error.
	// WHY: Section-not-found is a structured warning, never an exception.
	res := fixedEngine().Process(mustIssue(t), "[PAGE 1]solo avisos ordinarios\n[PAGE 2]más texto\n")
	if len(res.Records) != 0 || !res.Stats.Section.Empty() {
		t.Errorf("records = %d, section = %+v", len(res.Records), res.Stats.Section)
	}
}

func TestProcess_NoDelimiters(t *testing.T) {
	// WHAT: In-range pages with no recognizable delimiters produce zero
	// blocks and an empty record list.
	// WHY: Malformed issues must degrade to an empty run, never a failure.
	raw := "[PAGE 1]CONVOCATORIAS PARA CONCURSOS\n[PAGE 2]texto corto\n[PAGE 3]más texto corto\n"
	res := fixedEngine().Process(mustIssue(t), raw)
	if len(res.Records) != 0 {
		t.Errorf("records = %d, want 0", len(res.Records))
	}
	if res.Stats.Section.Empty() {
		t.Error("section should have been found via body scan")
	}
}

func TestProcessSource_BadName(t *testing.T) {
	// WHAT: An unparsable source name is the engine's only error path.
	// WHY: Without issue identity, records could not carry provenance.
	if _, err := fixedEngine().ProcessSource("unknown.txt", testIssue); err == nil {
		t.Error("want error for unparsable source name")
	}
}

func TestProcessBatch_OrderAndIsolation(t *testing.T) {
	// WHAT: Batch results come back in input order and match individual runs.
	// WHY: Issues are embarrassingly parallel; no state crosses documents.
	eng := fixedEngine()
	iss1 := mustIssue(t)
	iss2, _ := issue.FromSource("22082025-VES.txt")
	docs := []Doc{
		{Issue: iss1, Raw: testIssue},
		{Issue: iss2, Raw: "[PAGE 1]nada\n"},
		{Issue: iss1, Raw: testIssue},
	}
	got := eng.ProcessBatch(docs, 2)
	if len(got) != 3 {
		t.Fatalf("results = %d", len(got))
	}
	if len(got[0].Records) != 3 || len(got[1].Records) != 0 || len(got[2].Records) != 3 {
		t.Errorf("record counts = %d/%d/%d, want 3/0/3",
			len(got[0].Records), len(got[1].Records), len(got[2].Records))
	}
	if !reflect.DeepEqual(got[0].Records, got[2].Records) {
		t.Error("identical documents produced different records")
	}
	if got[1].Stats.SourceName != "22082025-VES.txt" {
		t.Errorf("result order broken: %q", got[1].Stats.SourceName)
	}
}

func TestProcessPages_MatchesSplit(t *testing.T) {
	// WHAT: Pre-split page pairs produce the same records as marker-tagged text.
	// WHY: Both input contracts must drive the identical pipeline.
	eng := fixedEngine()
	iss := mustIssue(t)

	var pp []pages.Page
	for _, part := range strings.Split(testIssue, "[PAGE ")[1:] {
		n, rest, _ := strings.Cut(part, "]")
		num, err := strconv.Atoi(n)
		if err != nil {
			t.Fatal(err)
		}
		pp = append(pp, pages.Page{Number: num, Text: rest})
	}

	fromPairs := eng.ProcessPages(iss, pp)
	fromBlob := eng.Process(iss, testIssue)
	if !reflect.DeepEqual(fromPairs.Records, fromBlob.Records) {
		t.Error("pair input and blob input diverged")
	}
	if fromPairs.Stats.PagesTotal != 5 {
		t.Errorf("pages_total = %d, want 5", fromPairs.Stats.PagesTotal)
	}
}

func TestProcess_RecoversPanickedBlock(t *testing.T) {
	// WHAT: A panic inside one block's stages drops that block, increments
	// BlocksRecovered, and the remaining blocks still emit records.
	// WHY: One malformed notice must never take down the rest of the issue.
	eng := fixedEngine()
	eng.resolvePlace = func(text string) geo.Place {
		if strings.Contains(text, "LA-002-S01-E7-N-9-2025") {
			panic("poisoned block")
		}
		return geo.Resolve(text)
	}
	baseline := fixedEngine().Process(mustIssue(t), testIssue)
	res := eng.Process(mustIssue(t), testIssue)

	if res.Stats.BlocksRecovered != 1 {
		t.Errorf("blocks_recovered = %d, want 1", res.Stats.BlocksRecovered)
	}
	if want := baseline.Stats.BlocksDropped + 1; res.Stats.BlocksDropped != want {
		t.Errorf("blocks_dropped = %d, want %d", res.Stats.BlocksDropped, want)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	for _, r := range res.Records {
		if r.Identifier == "LA-002-S01-E7-N-9-2025" {
			t.Error("panicked block still produced a record")
		}
	}
}
