package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/dhamidi/bib/config"
	"github.com/dhamidi/bib/format"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "bib"

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	mu      sync.RWMutex
	cfg     config.Config
	watcher *FileWatcher
	cancel  context.CancelFunc
}

func NewLSPServer(version string, cfg config.Config) *LSPServer {
	ls := &LSPServer{
		version: version,
		cfg:     cfg,
		log:     commonlog.GetLogger("bib.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                      ls.initialize,
		Initialized:                     ls.initialized,
		Shutdown:                        ls.shutdown,
		SetTrace:                        ls.setTrace,
		TextDocumentDidOpen:             ls.textDocumentDidOpen,
		TextDocumentDidChange:           ls.textDocumentDidChange,
		TextDocumentDidClose:            ls.textDocumentDidClose,
		TextDocumentFormatting:          ls.textDocumentFormatting,
		TextDocumentCompletion:          ls.textDocumentCompletion,
		TextDocumentHover:               ls.textDocumentHover,
		TextDocumentDefinition:          ls.textDocumentDefinition,
		TextDocumentDocumentSymbol:      ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:        ls.textDocumentFoldingRange,
		WorkspaceDidChangeConfiguration: ls.workspaceDidChangeConfiguration,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) currentConfig() config.Config {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.cfg
}

func (ls *LSPServer) setConfig(cfg config.Config) {
	ls.mu.Lock()
	ls.cfg = cfg
	ls.mu.Unlock()
	if ls.codebase != nil {
		ls.codebase.SetParserOptions(cfg.ParserOptions()...)
	}
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg, err := ls.currentConfig().Merge(params.InitializationOptions)
	if err != nil {
		ls.log.Warningf("ignoring initialization options: %s", err)
		cfg = ls.currentConfig()
	}
	ls.codebase = New(rootDir, cfg.ParserOptions()...)
	ls.setConfig(cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"@"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		ls.log.Warningf("scanning %s: %s", ls.codebase.RootDir(), err)
	}

	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		ls.log.Warningf("file watcher unavailable: %s", err)
		return nil
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	if err := watcher.Start(watchCtx); err != nil {
		cancel()
		watcher.Stop()
		ls.log.Warningf("file watcher unavailable: %s", err)
		return nil
	}
	ls.mu.Lock()
	ls.watcher = watcher
	ls.cancel = cancel
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.watcher != nil {
		ls.cancel()
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.Open(path, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.Update(path, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.Close(path)
	return nil
}

func (ls *LSPServer) document(uri protocol.DocumentUri) *Document {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.codebase.Get(path)
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	opts := ls.currentConfig().FormatOptions()
	if size, ok := intOption(params.Options, "tabSize"); ok && size > 0 {
		opts.TabSize = size
	}
	if spaces, ok := params.Options["insertSpaces"].(bool); ok {
		opts.InsertSpaces = spaces
	}

	var edits []protocol.TextEdit
	for _, edit := range format.Format(doc.Tree, doc.Text, opts) {
		edits = append(edits, protocol.TextEdit{
			Range:   toProtocolRange(edit.Range.Start, edit.Range.End),
			NewText: edit.NewText,
		})
	}
	return edits, nil
}

// intOption reads a numeric formatting option. Options decoded from JSON
// carry numbers as float64.
func intOption(options protocol.FormattingOptions, key string) (int, bool) {
	switch v := options[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case protocol.UInteger:
		return int(v), true
	}
	return 0, false
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	ref := referenceAt(doc.Tree, fromProtocolPosition(params.Position))
	if ref == nil {
		return nil, nil
	}

	var text string
	switch ref.kind {
	case refEntryKey:
		text = entrySummary(bibtex.NewEntry(ref.owner))
	case refCrossref:
		if _, entry := ls.codebase.FindEntry(doc.Path, ref.name); entry != nil {
			text = entrySummary(entry)
		}
	case refMacro:
		if _, macro := ls.codebase.FindMacro(doc.Path, ref.name); macro != nil {
			text = fmt.Sprintf("**@string** `%s`\n\n%s", macro.Name(), macro.Value())
		}
	}
	if text == "" {
		return nil, nil
	}

	r := toProtocolRange(ref.node.Span.Start, ref.node.Span.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

func entrySummary(entry *bibtex.Entry) string {
	if entry == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**@%s** `%s`", entry.Type(), entry.Key())
	for _, name := range []string{"title", "author", "editor", "year"} {
		if f := entry.Field(name); f != nil && f.Value() != "" {
			fmt.Fprintf(&sb, "\n\n%s: %s", name, f.Value())
		}
	}
	return sb.String()
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	ref := referenceAt(doc.Tree, fromProtocolPosition(params.Position))
	if ref == nil {
		return nil, nil
	}

	var target *Document
	var node *parser.Node
	switch ref.kind {
	case refCrossref:
		var entry *bibtex.Entry
		if target, entry = ls.codebase.FindEntry(doc.Path, ref.name); entry != nil {
			node = entry.KeyToken()
		}
	case refMacro:
		var macro *bibtex.String
		if target, macro = ls.codebase.FindMacro(doc.Path, ref.name); macro != nil {
			node = macro.NameToken()
		}
	}
	if node == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(target.Path),
		Range: toProtocolRange(node.Span.Start, node.Span.End),
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return documentSymbols(doc.Tree), nil
}

func documentSymbols(tree *bibtex.Tree) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, decl := range tree.Root.Children {
		switch decl.Kind {
		case parser.KindEntry:
			symbols = append(symbols, entrySymbol(decl))
		case parser.KindString:
			name := "@string"
			selection := decl.Children[0]
			s := bibtex.NewString(decl)
			if tok := s.NameToken(); tok != nil {
				name = tok.TokenLiteral()
				selection = tok
			}
			detail := s.Value()
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           name,
				Detail:         &detail,
				Kind:           protocol.SymbolKindConstant,
				Range:          spanRange(decl.Span),
				SelectionRange: spanRange(selection.Span),
			})
		case parser.KindPreamble:
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           "@preamble",
				Kind:           protocol.SymbolKindString,
				Range:          spanRange(decl.Span),
				SelectionRange: spanRange(decl.Children[0].Span),
			})
		}
	}
	return symbols
}

func entrySymbol(decl *parser.Node) protocol.DocumentSymbol {
	entry := bibtex.NewEntry(decl)
	name := "@" + entry.Type()
	selection := entry.TypeToken()
	if key := entry.KeyToken(); key != nil {
		name = key.TokenLiteral()
		selection = key
	}
	detail := entry.Type()

	var children []protocol.DocumentSymbol
	for _, f := range entry.Fields() {
		value := f.Value()
		children = append(children, protocol.DocumentSymbol{
			Name:           f.Name(),
			Detail:         &value,
			Kind:           protocol.SymbolKindField,
			Range:          spanRange(f.Node().Span),
			SelectionRange: spanRange(f.NameToken().Span),
		})
	}
	return protocol.DocumentSymbol{
		Name:           name,
		Detail:         &detail,
		Kind:           protocol.SymbolKindStruct,
		Range:          spanRange(decl.Span),
		SelectionRange: spanRange(selection.Span),
		Children:       children,
	}
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return foldingRanges(doc.Tree), nil
}

func foldingRanges(tree *bibtex.Tree) []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}
	for _, decl := range tree.Root.Children {
		if decl.Span.End.Line <= decl.Span.Start.Line {
			continue
		}
		kind := string(protocol.FoldingRangeKindRegion)
		if decl.Kind == parser.KindComment {
			kind = string(protocol.FoldingRangeKindComment)
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: protocol.UInteger(decl.Span.Start.Line),
			EndLine:   protocol.UInteger(decl.Span.End.Line),
			Kind:      &kind,
		})
	}
	return ranges
}

func (ls *LSPServer) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	cfg, err := ls.currentConfig().Merge(params.Settings)
	if err != nil {
		ls.log.Warningf("ignoring settings: %s", err)
		return nil
	}
	ls.setConfig(cfg)
	return nil
}

func fromProtocolPosition(pos protocol.Position) parser.Position {
	return parser.Position{Line: int(pos.Line), Column: int(pos.Character)}
}

func toProtocolPosition(pos parser.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(pos.Column),
	}
}

func toProtocolRange(start, end parser.Position) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(start), End: toProtocolPosition(end)}
}

func spanRange(span parser.Span) protocol.Range {
	return toProtocolRange(span.Start, span.End)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
