package records

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const trialsCSV = "Disease,Intervention Types,Phases,NCT ID\n" +
	"Lupus,DRUG,PHASE2/PHASE3,NCT1\n" +
	"lupus ,\"DRUG, BIOLOGICAL\",PHASE1,NCT2\n"

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeDatasets(t *testing.T, dir string, compress bool) []Source {
	t.Helper()
	contents := map[Dataset]string{
		Trials:           trialsCSV,
		TrialDrugs:       "NCT ID,Disease,Drug Name\nNCT1,Lupus,A\nNCT2,Lupus,B\n",
		PublicationDrugs: "Disease,Drug Name,PMID\nLupus,A,100\n",
		Publications:     "Disease,PublicationTypes,PMID\nLupus,Review;Journal Article,100\n",
		DrugDictionary:   "Drug Name,ATC 1st Level\nA,L\n",
	}
	var sources []Source
	for _, ds := range AllDatasets {
		name := string(ds) + ".csv"
		blob := []byte(contents[ds])
		if compress {
			name += ".gz"
			blob = gzipBytes(t, contents[ds])
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		sources = append(sources, Source{Dataset: ds, Location: path})
	}
	return sources
}

func TestReadCSVHeaderAndRaggedRows(t *testing.T) {
	in := "\ufeff Disease , Drug Name ,NCT ID\nLupus,A,NCT1\nArthritis,C\n\n,,\n"
	rows, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %#v", len(rows), rows)
	}
	if rows[0].Get(ColDisease) != "Lupus" || rows[0].Get(ColNCTID) != "NCT1" {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
	if _, ok := rows[1][ColNCTID]; ok {
		t.Fatalf("expected missing cell to be absent, got %#v", rows[1])
	}
	if rows[1].Get(ColNCTID) != "" {
		t.Fatal("expected absent column to read as empty")
	}
}

func TestReadCSVKeepsValuesVerbatim(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Drug Name,ATC 1st Level\n  Aspirin ,N\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if rows[0].Get(ColDrugName) != "  Aspirin " {
		t.Fatalf("expected untrimmed drug name, got %q", rows[0].Get(ColDrugName))
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty rows, got %#v", rows)
	}
}

func TestReadDatasetDetectsGzip(t *testing.T) {
	rows, err := ReadDataset(bytes.NewReader(gzipBytes(t, trialsCSV)))
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(rows) != 2 || rows[1].Get(ColInterventionTypes) != "DRUG, BIOLOGICAL" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestLoadAllFromFiles(t *testing.T) {
	for _, compress := range []bool{false, true} {
		sources := writeDatasets(t, t.TempDir(), compress)
		store, err := NewLoader(LoaderConfig{}, nil).LoadAll(context.Background(), sources)
		if err != nil {
			t.Fatalf("LoadAll(compress=%v): %v", compress, err)
		}
		want := map[string]int{"trials": 2, "trial_drugs": 2, "publication_drugs": 1, "publications": 1, "drug_dictionary": 1}
		if got := store.Counts(); !reflect.DeepEqual(got, want) {
			t.Fatalf("counts = %#v, want %#v", got, want)
		}
	}
}

func TestLoadAllFailsWhenAnyDatasetFails(t *testing.T) {
	sources := writeDatasets(t, t.TempDir(), false)
	sources[3].Location = filepath.Join(t.TempDir(), "missing.csv")
	_, err := NewLoader(LoaderConfig{}, nil).LoadAll(context.Background(), sources)
	if err == nil {
		t.Fatal("expected load failure")
	}
	if !strings.Contains(err.Error(), "load publications") {
		t.Fatalf("expected dataset name in error, got %v", err)
	}
}

func TestLoadAllRequiresEveryDataset(t *testing.T) {
	sources := writeDatasets(t, t.TempDir(), false)
	_, err := NewLoader(LoaderConfig{}, nil).LoadAll(context.Background(), sources[:4])
	if err == nil || !strings.Contains(err.Error(), "drug_dictionary") {
		t.Fatalf("expected missing dataset error, got %v", err)
	}
}

func TestLoadAllFromHTTP(t *testing.T) {
	compressed := gzipBytes(t, trialsCSV)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trials.csv.gz":
			_, _ = w.Write(compressed)
		case "/broken.csv":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte("Disease,Drug Name\nLupus,A\n"))
		}
	}))
	defer srv.Close()

	var sources []Source
	for _, ds := range AllDatasets {
		loc := srv.URL + "/" + string(ds) + ".csv"
		if ds == Trials {
			loc += ".gz"
		}
		sources = append(sources, Source{Dataset: ds, Location: loc})
	}
	store, err := NewLoader(LoaderConfig{HTTPClient: srv.Client()}, nil).LoadAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if store.Len(Trials) != 2 || store.Len(DrugDictionary) != 1 {
		t.Fatalf("unexpected counts: %#v", store.Counts())
	}

	sources[0].Location = srv.URL + "/broken.csv"
	if _, err := NewLoader(LoaderConfig{HTTPClient: srv.Client()}, nil).LoadAll(context.Background(), sources); err == nil {
		t.Fatal("expected http status failure")
	}
}

func TestDistinctDiseases(t *testing.T) {
	s := NewStore(map[Dataset][]Row{
		Trials:           {{ColDisease: "Lupus"}, {ColDisease: ""}, {}},
		TrialDrugs:       {{ColDisease: "Arthritis"}, {ColDisease: "Lupus"}},
		PublicationDrugs: {{ColDisease: "lupus"}},
		Publications:     {{ColDisease: "Asthma"}},
		DrugDictionary:   {{ColDisease: "Ignored"}},
	})
	got := s.DistinctDiseases()
	want := []string{"Arthritis", "Asthma", "Lupus", "lupus"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DistinctDiseases = %#v, want %#v", got, want)
	}
	if s.Has(DrugDictionary) != true || s.Has(Dataset("nope")) {
		t.Fatal("unexpected Has results")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	sources := writeDatasets(t, t.TempDir(), false)
	store, err := NewLoader(LoaderConfig{}, nil).LoadAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.db")
	if err := SaveSnapshot(context.Background(), path, store); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	// Saving twice replaces rather than appends.
	if err := SaveSnapshot(context.Background(), path, store); err != nil {
		t.Fatalf("SaveSnapshot again: %v", err)
	}
	loaded, err := LoadSnapshot(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	for _, ds := range AllDatasets {
		if !reflect.DeepEqual(loaded.Rows(ds), store.Rows(ds)) {
			t.Fatalf("dataset %s differs after round trip:\n got %#v\nwant %#v", ds, loaded.Rows(ds), store.Rows(ds))
		}
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(context.Background(), filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
