package uischema

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFS_Embedded(t *testing.T) {
	store, err := LoadFS(EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}

	op, ok := store.Operation("predictChurn")
	if !ok {
		t.Fatalf("expected predictChurn operation")
	}
	if op.Form.SubmitLabel != "Predict Churn" || op.Form.BusyLabel != "Predicting..." {
		t.Fatalf("unexpected button labels: %+v", op.Form)
	}

	compact, ok := store.Preset(PresetCompact)
	if !ok {
		t.Fatalf("expected compact preset")
	}
	want := []string{"tenure", "MonthlyCharges", "Contract", "PaymentMethod"}
	if diff := cmp.Diff(want, compact); diff != "" {
		t.Fatalf("compact preset mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{PresetFull, PresetCompact}, store.Presets()); diff != "" {
		t.Fatalf("preset names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_JSONAndDuplicates(t *testing.T) {
	store, err := LoadFS(fstest.MapFS{
		"a.json":    {Data: []byte(`{"operations":{"op":{"form":{"title":"T"}}}}`)},
		"notes.txt": {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if op, ok := store.Operation("op"); !ok || op.Form.Title != "T" || op.Source != "a.json" {
		t.Fatalf("unexpected operation: %+v", op)
	}

	_, err = LoadFS(fstest.MapFS{
		"a.yaml": {Data: []byte("operations:\n  op: {}\n")},
		"b.yaml": {Data: []byte("operations:\n  op: {}\n")},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate operation") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadFS_EmptyFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"a.yaml": {Data: []byte("  ")}})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadFS_Nil(t *testing.T) {
	store, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}
