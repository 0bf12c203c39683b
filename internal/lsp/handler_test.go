package lsp

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func writeTempSource(t *testing.T, source string) protocol.DocumentUri {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func TestUpdateDocCleanSourceHasNoDiagnostics(t *testing.T) {
	handler := NewHandler()
	uri := writeTempSource(t, "search\n[#person name: n]\nbind\n[#greeting person: n]\nend\n")

	diagnostics, err := handler.updateDoc(uri)
	require.NoError(t, err)
	require.Empty(t, diagnostics)

	path, err := uriToPath(uri)
	require.NoError(t, err)

	handler.mu.RLock()
	_, cached := handler.docs[path]
	handler.mu.RUnlock()
	require.True(t, cached, "parsed document should be cached")
}

func TestUpdateDocMalformedSourceReportsDiagnostics(t *testing.T) {
	handler := NewHandler()
	uri := writeTempSource(t, "search\n[#person name\nbind\n[#greeting person: n]\nend\n")

	diagnostics, err := handler.updateDoc(uri)
	require.NoError(t, err)
	require.NotEmpty(t, diagnostics)
	require.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)
}

func TestTextDocumentDidCloseClearsState(t *testing.T) {
	handler := NewHandler()
	uri := writeTempSource(t, "search\n[#person name: n]\nbind\n[#greeting person: n]\nend\n")

	_, err := handler.updateDoc(uri)
	require.NoError(t, err)

	path, err := uriToPath(uri)
	require.NoError(t, err)

	err = handler.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	handler.mu.RLock()
	_, cached := handler.docs[path]
	_, contentCached := handler.content[path]
	handler.mu.RUnlock()
	require.False(t, cached)
	require.False(t, contentCached)
}

func TestURIToPathRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}

	got, err := uriToPath(u.String())
	require.NoError(t, err)
	require.Equal(t, filepath.Clean(path), filepath.Clean(got))
}
