// Package mcp serves the healer guidance engine to MCP clients as JSON-RPC
// 2.0 over a line-delimited stdio stream.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/store"
)

// maxLineBytes bounds a single JSON-RPC message.
const maxLineBytes = 1 << 20

// Server answers MCP requests from an ability source.
type Server struct {
	tools   []toolDef      // registration order, as listed to clients
	byName  map[string]int // tool name -> index into tools
	source  store.AbilitySource
	engine  *engine.Engine
	log     *zap.Logger
	version string
}

type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     toolHandler
}

// toolHandler receives the raw "arguments" object and returns a value that is
// marshalled into the tool's text content.
type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// NewServer constructs a Server answering from src with the given engine.
// A nil logger is replaced by a no-op logger.
func NewServer(src store.AbilitySource, eng *engine.Engine, log *zap.Logger, version string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if eng == nil {
		eng = &engine.Engine{}
	}
	s := &Server{
		byName:  make(map[string]int),
		source:  src,
		engine:  eng,
		log:     log,
		version: version,
	}
	addTools(s)
	return s
}

// registerTool adds def, replacing any tool already registered under its name.
func (s *Server) registerTool(def toolDef) {
	if i, ok := s.byName[def.Name]; ok {
		s.tools[i] = def
		return
	}
	s.byName[def.Name] = len(s.tools)
	s.tools = append(s.tools, def)
}

func (s *Server) lookup(name string) (toolDef, bool) {
	i, ok := s.byName[name]
	if !ok {
		return toolDef{}, false
	}
	return s.tools[i], true
}

// Run serves requests read line by line from r, writing one response line per
// request to w. It returns nil when ctx is cancelled or r reaches EOF, and the
// read or write error otherwise.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines, readErr := readLines(ctx, r)
	bw := bufio.NewWriter(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			resp, reply := s.handle(ctx, line)
			if !reply {
				continue
			}
			if err := writeLine(bw, resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

// readLines scans r on its own goroutine. The line channel closes on EOF; a
// scan failure is delivered on the error channel instead.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errc <- fmt.Errorf("reading request: %w", err)
			return
		}
		close(lines)
	}()
	return lines, errc
}

// handle decodes one request and builds its response. reply is false for
// notifications.
func (s *Server) handle(ctx context.Context, line []byte) (resp response, reply bool) {
	resp.JSONRPC = "2.0"

	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn("mcp: malformed request", zap.Error(err))
		resp.Error = &rpcError{Code: codeParseError, Message: "Parse error"}
		return resp, true
	}
	if req.isNotification() {
		s.log.Debug("mcp: notification", zap.String("method", req.Method))
		return resp, false
	}
	resp.ID = req.ID

	var err *rpcError
	switch req.Method {
	case "initialize":
		resp.Result = s.initialize()
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = s.listTools()
	case "tools/call":
		resp.Result, err = s.callTool(ctx, req.Params)
	default:
		err = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}
	resp.Error = err
	return resp, true
}

func (s *Server) initialize() initializeResult {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      serverInfo{Name: "healerguide", Version: s.version},
	}
}

func (s *Server) listTools() map[string][]toolListEntry {
	entries := make([]toolListEntry, len(s.tools))
	for i, t := range s.tools {
		entries[i] = toolListEntry{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return map[string][]toolListEntry{"tools": entries}
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params callParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	tool, ok := s.lookup(params.Name)
	if !ok {
		s.log.Debug("mcp: unknown tool", zap.String("tool", params.Name))
		return errorResult(fmt.Errorf("unknown tool: %s", params.Name)), nil
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	out, err := tool.Handler(ctx, args)
	if err != nil {
		s.log.Debug("mcp: tool failed", zap.String("tool", tool.Name), zap.Error(err))
		return errorResult(err), nil
	}
	text, err := json.Marshal(out)
	if err != nil {
		return errorResult(fmt.Errorf("encoding %s result: %w", tool.Name, err)), nil
	}
	return textResult(string(text)), nil
}

func writeLine(bw *bufio.Writer, resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := bw.Write(data); err != nil {
		return err
	}
	return bw.Flush()
}
