package namegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeOllama serves the two endpoints the client touches.
func fakeOllama(t *testing.T, reply func(req chatRequest) (string, int)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		content, status := reply(req)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": content},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAvailable(t *testing.T) {
	srv := fakeOllama(t, nil)
	o := NewOllama(srv.URL, "m", "ocr", time.Second)
	if !o.Available(context.Background()) {
		t.Error("expected available")
	}

	down := NewOllama("http://127.0.0.1:1", "m", "ocr", time.Second)
	if down.Available(context.Background()) {
		t.Error("expected unavailable")
	}
}

func TestNameFromText(t *testing.T) {
	var seen chatRequest
	srv := fakeOllama(t, func(req chatRequest) (string, int) {
		seen = req
		return `{"name":"q3 financial report"}`, http.StatusOK
	})

	o := NewOllama(srv.URL, "gemma3:4b", "deepocr", time.Second)
	name, err := o.NameFromText(context.Background(), "Revenue was up 4% ...", "PDF")
	if err != nil {
		t.Fatalf("NameFromText: %v", err)
	}
	if name != "q3 financial report" {
		t.Errorf("name = %q", name)
	}

	if seen.Model != "gemma3:4b" {
		t.Errorf("model = %q", seen.Model)
	}
	if seen.Stream {
		t.Error("stream must be off")
	}
	if len(seen.Format) == 0 {
		t.Error("naming calls must constrain the response format")
	}
	if len(seen.Messages) != 1 || seen.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", seen.Messages)
	}
}

func TestNameFromImageSendsEncodedFile(t *testing.T) {
	var seen chatRequest
	srv := fakeOllama(t, func(req chatRequest) (string, int) {
		seen = req
		return `{"name":"sunset over harbor"}`, http.StatusOK
	})

	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := NewOllama(srv.URL, "gemma3:4b", "deepocr", time.Second)
	name, err := o.NameFromImage(context.Background(), path)
	if err != nil {
		t.Fatalf("NameFromImage: %v", err)
	}
	if name != "sunset over harbor" {
		t.Errorf("name = %q", name)
	}
	if len(seen.Messages) != 1 || len(seen.Messages[0].Images) != 1 {
		t.Fatalf("messages = %+v", seen.Messages)
	}
	if seen.Messages[0].Images[0] != "anBlZ2RhdGE=" {
		t.Errorf("image payload = %q", seen.Messages[0].Images[0])
	}
}

func TestExtractTextUsesOCRModel(t *testing.T) {
	var seen chatRequest
	srv := fakeOllama(t, func(req chatRequest) (string, int) {
		seen = req
		return "  Invoice No 42\nCity Power  ", http.StatusOK
	})

	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("pdfdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := NewOllama(srv.URL, "gemma3:4b", "deepocr", time.Second)
	text, err := o.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Invoice No 42\nCity Power" {
		t.Errorf("text = %q", text)
	}
	if seen.Model != "deepocr" {
		t.Errorf("model = %q, want the ocr model", seen.Model)
	}
	if len(seen.Format) != 0 {
		t.Error("ocr calls must not constrain the format")
	}
}

func TestChatErrors(t *testing.T) {
	srv := fakeOllama(t, func(chatRequest) (string, int) {
		return "", http.StatusInternalServerError
	})

	o := NewOllama(srv.URL, "gemma3:4b", "deepocr", time.Second)
	if _, err := o.NameFromText(context.Background(), "x", "PDF"); err == nil {
		t.Error("expected error on HTTP 500")
	}

	none := NewOllama(srv.URL, "", "", time.Second)
	if _, err := none.NameFromText(context.Background(), "x", "PDF"); err == nil {
		t.Error("expected error with no model configured")
	}
}

func TestParseCandidate(t *testing.T) {
	if name, err := parseCandidate(`{"name":"report"}`); err != nil || name != "report" {
		t.Errorf("got %q, %v", name, err)
	}
	if _, err := parseCandidate(`{"name":"  "}`); err == nil {
		t.Error("blank name must fail")
	}
	if _, err := parseCandidate(`Sure! How about "report"?`); err == nil {
		t.Error("prose reply must fail")
	}
}
