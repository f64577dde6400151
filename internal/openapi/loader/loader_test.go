package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

const payload = "openapi: 3.0.3\n"

func TestLoader_FileFSAndHTTP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	urlSource, err := pkgopenapi.SourceFromURL(srv.URL + "/schema.yaml")
	if err != nil {
		t.Fatalf("url source: %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions(
		pkgopenapi.WithFileSystem(fstest.MapFS{"schema/predict.yaml": {Data: []byte(payload)}}),
		pkgopenapi.WithHTTPClient(srv.Client()),
	))

	sources := []pkgopenapi.Source{
		pkgopenapi.SourceFromFile(path),
		pkgopenapi.SourceFromFS("schema/predict.yaml"),
		urlSource,
	}
	for _, src := range sources {
		doc, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("load %s: %v", src.Kind(), err)
		}
		if string(doc.Raw()) != payload {
			t.Fatalf("load %s: unexpected payload %q", src.Kind(), doc.Raw())
		}
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	src, err := pkgopenapi.SourceFromURL("http://example.invalid/schema.yaml")
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), src); err == nil {
		t.Fatalf("expected http sources to be disabled")
	}
}
