package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hairworks/internal/media"
)

func emptyCatalog() *ReferenceCatalog {
	return &ReferenceCatalog{entries: map[string]ReferenceEntry{}}
}

func TestRenderSyntheticViewsAreDeterministic(t *testing.T) {
	c := NewClient(Options{References: emptyCatalog()})
	req := media.RenderRequest{StyleSlug: "buzz-cut", HeadScale: 1.0}

	first, err := c.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := c.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, name := range media.ViewNames {
		data := first.Get(name)
		if len(data) == 0 {
			t.Fatalf("%s view is empty", name)
		}
		if !bytes.Equal(data, second.Get(name)) {
			t.Errorf("%s view differs between identical requests", name)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("%s view is not a valid PNG: %v", name, err)
		}
	}

	other, err := c.Render(context.Background(), media.RenderRequest{StyleSlug: "quiff", HeadScale: 1.0})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if bytes.Equal(first.Front, other.Front) {
		t.Error("different slugs produced identical front views")
	}
}

func TestRenderUsesReferencePhoto(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "buzz-cut.jpg")
	if err := os.WriteFile(photo, []byte("reference-photo"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	refs := &ReferenceCatalog{entries: map[string]ReferenceEntry{
		"buzz-cut": {LocalPath: photo},
	}}

	c := NewClient(Options{References: refs})
	views, err := c.Render(context.Background(), media.RenderRequest{StyleSlug: "buzz-cut"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, name := range media.ViewNames {
		if string(views.Get(name)) != "reference-photo" {
			t.Errorf("%s view does not carry the reference photo", name)
		}
	}
}

func TestRenderMissingReferenceFallsBackToSynthetic(t *testing.T) {
	refs := &ReferenceCatalog{entries: map[string]ReferenceEntry{
		"buzz-cut": {LocalPath: "/nonexistent/photo.jpg"},
	}}

	c := NewClient(Options{References: refs})
	views, err := c.Render(context.Background(), media.RenderRequest{StyleSlug: "buzz-cut"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(views.Front)); err != nil {
		t.Fatalf("fallback front view is not a PNG: %v", err)
	}
}

func TestRenderRemoteService(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("remote-view"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/render" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req remoteRenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.StyleSlug != "quiff" {
			t.Errorf("slug = %s", req.StyleSlug)
		}
		json.NewEncoder(w).Encode(remoteRenderResponse{Views: map[string]string{
			"front": encoded, "left": encoded, "right": encoded, "back": encoded,
		}})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, References: emptyCatalog()})
	views, err := c.Render(context.Background(), media.RenderRequest{StyleSlug: "quiff", HeadScale: 1.1})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, name := range media.ViewNames {
		if string(views.Get(name)) != "remote-view" {
			t.Errorf("%s view = %q", name, views.Get(name))
		}
	}
}

func TestRenderRemoteFailureFallsBackToSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, References: emptyCatalog()})
	views, err := c.Render(context.Background(), media.RenderRequest{StyleSlug: "quiff"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(views.Front)); err != nil {
		t.Fatalf("fallback front view is not a PNG: %v", err)
	}
}

func TestRefineUnconfiguredIsNoOp(t *testing.T) {
	c := NewClient(Options{References: emptyCatalog()})
	views := &media.ViewSet{Front: []byte("a"), Left: []byte("b"), Right: []byte("c"), Back: []byte("d")}

	if err := c.Refine(context.Background(), views); err != nil {
		t.Fatalf("Refine() error: %v", err)
	}
	if string(views.Front) != "a" || string(views.Back) != "d" {
		t.Fatal("unconfigured refiner must leave views untouched")
	}
}

func TestRefineReplacesViews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/refine" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("refined"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, References: emptyCatalog()})
	views := &media.ViewSet{Front: []byte("a"), Left: []byte("b"), Right: []byte("c"), Back: []byte("d")}

	if err := c.Refine(context.Background(), views); err != nil {
		t.Fatalf("Refine() error: %v", err)
	}
	for _, name := range media.ViewNames {
		if string(views.Get(name)) != "refined" {
			t.Errorf("%s view = %q, want refined", name, views.Get(name))
		}
	}
}

func TestLoadReferenceCatalog(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		refs, err := LoadReferenceCatalog("")
		if err != nil {
			t.Fatalf("LoadReferenceCatalog() error: %v", err)
		}
		if refs.Len() != 0 {
			t.Fatalf("Len() = %d, want 0", refs.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		refs, err := LoadReferenceCatalog(filepath.Join(t.TempDir(), "missing.json"))
		if err != nil {
			t.Fatalf("LoadReferenceCatalog() error: %v", err)
		}
		if refs.Len() != 0 {
			t.Fatalf("Len() = %d, want 0", refs.Len())
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "refs.json")
		content := `{"buzz-cut":{"local_path":"/data/buzz.jpg","source_url":"https://img.test/buzz"}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write catalog: %v", err)
		}

		refs, err := LoadReferenceCatalog(path)
		if err != nil {
			t.Fatalf("LoadReferenceCatalog() error: %v", err)
		}
		entry, ok := refs.Lookup("buzz-cut")
		if !ok || entry.LocalPath != "/data/buzz.jpg" {
			t.Fatalf("Lookup() = %+v, %v", entry, ok)
		}
		if _, ok := refs.Lookup("quiff"); ok {
			t.Fatal("Lookup() matched an absent slug")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "refs.json")
		if err := os.WriteFile(path, []byte("not-json"), 0o644); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
		if _, err := LoadReferenceCatalog(path); err == nil {
			t.Fatal("LoadReferenceCatalog() should reject malformed JSON")
		}
	})
}
