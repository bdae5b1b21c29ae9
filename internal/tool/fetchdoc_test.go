package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const docHTML = `<html><head><title>Guide</title><style>body{}</style></head>
<body><script>evil()</script><h1>Install</h1><p>Run the <code>setup</code> script.</p></body></html>`

func docServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(docHTML))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("plain body"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDocTool_Markdown(t *testing.T) {
	srv := docServer(t)
	tool := NewFetchDocTool()

	input, _ := json.Marshal(FetchDocInput{URL: srv.URL + "/doc", Format: "markdown"})
	result, err := tool.Execute(context.Background(), input, testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(result.Output, "# Install") {
		t.Errorf("Expected atx heading in markdown output: %q", result.Output)
	}
	if strings.Contains(result.Output, "evil()") {
		t.Errorf("Script content leaked into output: %q", result.Output)
	}
}

func TestFetchDocTool_Text(t *testing.T) {
	srv := docServer(t)
	tool := NewFetchDocTool()

	input, _ := json.Marshal(FetchDocInput{URL: srv.URL + "/doc", Format: "text"})
	result, err := tool.Execute(context.Background(), input, testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(result.Output, "Install") {
		t.Errorf("Expected body text: %q", result.Output)
	}
	if strings.Contains(result.Output, "<h1>") {
		t.Errorf("Text format should strip tags: %q", result.Output)
	}
}

func TestFetchDocTool_HTMLPassthrough(t *testing.T) {
	srv := docServer(t)
	tool := NewFetchDocTool()

	input, _ := json.Marshal(FetchDocInput{URL: srv.URL + "/doc", Format: "html"})
	result, err := tool.Execute(context.Background(), input, testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(result.Output, "<h1>Install</h1>") {
		t.Errorf("HTML format should return raw HTML: %q", result.Output)
	}
}

func TestFetchDocTool_NonHTMLContent(t *testing.T) {
	srv := docServer(t)
	tool := NewFetchDocTool()

	input, _ := json.Marshal(FetchDocInput{URL: srv.URL + "/plain", Format: "markdown"})
	result, err := tool.Execute(context.Background(), input, testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Output != "plain body" {
		t.Errorf("Non-HTML content should pass through: %q", result.Output)
	}
}

func TestFetchDocTool_InvalidURL(t *testing.T) {
	tool := NewFetchDocTool()
	_, err := tool.Execute(context.Background(),
		json.RawMessage(`{"url": "ftp://example.com"}`), testContext())
	if err == nil || !strings.Contains(err.Error(), "http") {
		t.Errorf("Expected URL scheme error, got: %v", err)
	}
}

func TestFetchDocTool_BadStatus(t *testing.T) {
	srv := docServer(t)
	tool := NewFetchDocTool()

	input, _ := json.Marshal(FetchDocInput{URL: srv.URL + "/missing"})
	_, err := tool.Execute(context.Background(), input, testContext())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected status error, got: %v", err)
	}
}

func TestFetchDocTool_BadFormat(t *testing.T) {
	tool := NewFetchDocTool()
	_, err := tool.Execute(context.Background(),
		json.RawMessage(`{"url": "https://example.com", "format": "pdf"}`), testContext())
	if err == nil || !strings.Contains(err.Error(), "format") {
		t.Errorf("Expected format error, got: %v", err)
	}
}
