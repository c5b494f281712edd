package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bfrs/token"
)

// handler.go implements the bfrs language server (SPEC_FULL.md §B.4):
// live bracket-balance diagnostics while editing BF source. Grounded on
// the teacher's internal/lsp/handler.go (KansoHandler: a mutex-guarded
// per-document cache, Initialize advertising capabilities, DidOpen/
// DidChange re-reading the document from disk and pushing diagnostics)
// narrowed to what bfrs actually has to offer: no completion, no semantic
// tokens, no hover over optimized IR — see SPEC_FULL.md §B.4 for why those
// are out of scope.

// Handler implements the LSP methods bfrs-lsp wires up.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

// Initialize advertises the server's (deliberately small) capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is a no-op acknowledgement.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown releases per-document state.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content = make(map[string]string)
	return nil
}

// TextDocumentDidOpen parses the freshly opened document and publishes
// diagnostics for it.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.updateAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentDidChange re-reads the document and republishes diagnostics.
// Like the teacher's handler, this re-reads from disk rather than trusting
// the notification's own content payload: bfrs's only diagnostic is
// bracket-imbalance, which is cheap enough to recompute from scratch on
// every edit, and it keeps this handler from having to pattern-match glsp's
// several incremental-change-event shapes for a server that always
// negotiates Full sync anyway.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.updateAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentDidClose drops the document's cached content.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, params.TextDocument.URI)
	return nil
}

func (h *Handler) updateAndPublish(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("bfrs-lsp: %w", err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bfrs-lsp: failed to read %s: %w", path, err)
	}

	h.mu.Lock()
	h.content[uri] = string(source)
	h.mu.Unlock()

	var diagnostics []protocol.Diagnostic
	if _, parseErr := token.Parse(path, string(source)); parseErr != nil {
		diagnostics = convertParseError(parseErr)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// uriToPath mirrors the teacher's handler.go conversion: file:// URIs only,
// with the Windows leading-slash quirk handled the same way.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
