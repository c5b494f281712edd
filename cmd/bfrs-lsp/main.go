package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bfrs/internal/lsp"
)

// main.go starts the bfrs language server over stdio (SPEC_FULL.md §B.4).
// Grounded directly on the teacher's cmd/kanso-lsp/main.go: commonlog
// configuration, a protocol.Handler struct wired to the package's handler
// methods, server.NewServer(...).RunStdio().
const serverName = "bfrs"

var version = "0.1.0"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, serverName, false)

	log.Println("Starting bfrs LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting bfrs LSP server:", err)
		os.Exit(1)
	}
}
