package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/engine"
)

// newEmptyServer creates a Server with no ability source. Only protocol
// methods may be exercised against it.
func newEmptyServer() *Server {
	return NewServer(nil, engine.New(engine.Options{}), zap.NewNop(), "test")
}

// pipeClient drives a running Server over in-memory pipes.
type pipeClient struct {
	t      *testing.T
	in     *io.PipeWriter
	out    *bufio.Reader
	cancel context.CancelFunc
	done   chan error
}

// startServer runs s until the test ends. Cleanup cancels the server, closes
// its input and waits for Run to return.
func startServer(t *testing.T, s *Server) *pipeClient {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	c := &pipeClient{t: t, in: inW, out: bufio.NewReader(outR), cancel: cancel, done: make(chan error, 1)}
	go func() { c.done <- s.Run(ctx, inR, outW) }()

	t.Cleanup(func() {
		cancel()
		_ = inW.Close()
		_ = outR.Close()
		select {
		case <-c.done:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return c
}

func (c *pipeClient) send(line string) {
	c.t.Helper()
	_, err := io.WriteString(c.in, line+"\n")
	require.NoError(c.t, err)
}

// recv reads one response line, failing the test if none arrives in time.
func (c *pipeClient) recv() string {
	c.t.Helper()
	got := make(chan string, 1)
	go func() {
		line, _ := c.out.ReadString('\n')
		got <- strings.TrimSuffix(line, "\n")
	}()
	select {
	case line := <-got:
		return line
	case <-time.After(2 * time.Second):
		c.t.Fatal("no response from server")
		return ""
	}
}

func (c *pipeClient) call(line string) string {
	c.t.Helper()
	c.send(line)
	return c.recv()
}

type rpcReply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func decodeReply(t *testing.T, line string) rpcReply {
	t.Helper()
	var r rpcReply
	require.NoError(t, json.Unmarshal([]byte(line), &r), line)
	return r
}

func TestRun_Initialize(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	require.Nil(t, reply.Error)

	var res initializeResult
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	assert.Equal(t, protocolVersion, res.ProtocolVersion)
	assert.Equal(t, serverInfo{Name: "healerguide", Version: "test"}, res.ServerInfo)
	assert.Contains(t, res.Capabilities, "tools")
}

func TestRun_Ping(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":"p","method":"ping"}`))
	assert.Nil(t, reply.Error)
	assert.JSONEq(t, `"p"`, string(reply.ID))
	assert.JSONEq(t, `{}`, string(reply.Result))
}

func TestRun_ToolsList(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name:        "echo",
		Description: "Returns its arguments",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			return args, nil
		},
	})
	c := startServer(t, s)

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	var res struct {
		Tools []toolListEntry `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	require.Len(t, res.Tools, 7)
	assert.Equal(t, "classify_ability", res.Tools[0].Name)
	assert.Equal(t, "echo", res.Tools[6].Name)
	for _, tool := range res.Tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
}

func TestRegisterTool_ReplacesByName(t *testing.T) {
	s := newEmptyServer()
	before := len(s.tools)
	s.registerTool(toolDef{Name: "classify_ability", Description: "replaced"})

	assert.Len(t, s.tools, before)
	tool, ok := s.lookup("classify_ability")
	require.True(t, ok)
	assert.Equal(t, "replaced", tool.Description)
}

func TestRun_UnknownMethod(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`))
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeMethodNotFound, reply.Error.Code)
}

func TestRun_NotificationGetsNoReply(t *testing.T) {
	c := startServer(t, newEmptyServer())

	c.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	// The first line back must answer the ping, not the notification.
	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":7,"method":"ping"}`))
	assert.JSONEq(t, `7`, string(reply.ID))
}

func TestRun_ParseErrorKeepsServing(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{not json`))
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeParseError, reply.Error.Code)

	reply = decodeReply(t, c.call(`{"jsonrpc":"2.0","id":9,"method":"ping"}`))
	assert.Nil(t, reply.Error)
}

func TestRun_InvalidCallParams(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":[1,2]}`))
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeInvalidParams, reply.Error.Code)
}

func TestRun_UnknownTool(t *testing.T) {
	c := startServer(t, newEmptyServer())

	reply := decodeReply(t, c.call(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}`))
	require.Nil(t, reply.Error)

	var res toolsCallResult
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	assert.True(t, res.IsError)
	assert.Equal(t, []mcpContent{{Type: "text", Text: "unknown tool: nope"}}, res.Content)
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inR, inW := io.Pipe()
	defer inW.Close()

	done := make(chan error, 1)
	go func() { done <- newEmptyServer().Run(ctx, inR, io.Discard) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ReturnsOnEOF(t *testing.T) {
	err := newEmptyServer().Run(context.Background(), strings.NewReader(""), io.Discard)
	assert.NoError(t, err)
}

func TestRun_BatchFromReader(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"nope"}`,
	}, "\n")
	var out strings.Builder

	require.NoError(t, newEmptyServer().Run(context.Background(), strings.NewReader(in), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, lines[0])
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":2,"error":{"code":-32601,"message":"Method not found"}}`, lines[1])
}
