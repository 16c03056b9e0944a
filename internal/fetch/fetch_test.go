package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "<html>ok</html>", result.HTML())
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.Header.Get("X-Test"))
	}))
	defer server.Close()

	opts := &Options{
		Timeout:   DefaultTimeout,
		UserAgent: "custom-agent",
		Headers:   map[string]string{"X-Test": "1"},
	}
	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
}

func TestURL_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "404")
	// The body still comes back for diagnosis.
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, bad := range []string{"", "not-a-url", "/relative/only"} {
		_, err := URL(context.Background(), bad, nil)
		var ferr *Error
		assert.ErrorAs(t, err, &ferr, bad)
	}
}

func TestDownloadFile(t *testing.T) {
	payload := []byte("%PDF-1.4 test content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	outputPath := filepath.Join(t.TempDir(), "nested", "schedule.pdf")
	require.NoError(t, DownloadFile(context.Background(), server.URL, outputPath, nil))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// No temp files left next to the download.
	entries, err := os.ReadDir(filepath.Dir(outputPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownloadFile_FetchFailureWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	outputPath := filepath.Join(t.TempDir(), "schedule.pdf")
	err := DownloadFile(context.Background(), server.URL, outputPath, nil)
	require.Error(t, err)
	assert.NoFileExists(t, outputPath)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("<html></html>"))
	assert.False(t, ShouldUseBrowser(longHTML()))
}

func longHTML() string {
	page := "<html><body>"
	for i := 0; i < 100; i++ {
		page += "<p>schedule content</p>"
	}
	return page + "</body></html>"
}
