package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"gradectl/internal/resolve"
)

// DefaultDialTimeout bounds the socket connect; the bridge answers promptly
// or not at all.
const DefaultDialTimeout = 2 * time.Second

// Client is a connection to the bridge helper. It implements resolve.Host.
type Client struct {
	conn net.Conn
	rpc  *rpc.Client
}

var _ resolve.Host = (*Client)(nil)

// Dial connects to the bridge socket at path.
func Dial(path string) (*Client, error) {
	return DialTimeout(path, DefaultDialTimeout)
}

// DialTimeout connects to the bridge socket with an explicit timeout.
func DialTimeout(path string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		rpc:  rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)),
	}, nil
}

// Close releases the bridge connection. Handles issued by this session are
// invalid afterwards.
func (c *Client) Close() error {
	if c.rpc != nil {
		_ = c.rpc.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, handle, method string, args ...any) (json.RawMessage, error) {
	if c.rpc == nil {
		return nil, resolve.ErrNotConnected
	}
	if args == nil {
		args = []any{}
	}
	var resp InvokeResponse
	call := c.rpc.Go("Bridge.Invoke", InvokeRequest{Handle: handle, Method: method, Args: args}, &resp, nil)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.Done:
	}
	if call.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, call.Error)
	}
	return resp.Result, nil
}

// callBool invokes a host method whose only result is a success flag and
// maps a false return onto ErrHostRefused.
func (c *Client) callBool(ctx context.Context, handle, method string, args ...any) error {
	raw, err := c.invoke(ctx, handle, method, args...)
	if err != nil {
		return err
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	if !ok {
		return resolve.Refused(method)
	}
	return nil
}

func (c *Client) callString(ctx context.Context, handle, method string, args ...any) (string, error) {
	raw, err := c.invoke(ctx, handle, method, args...)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s: decode result: %w", method, err)
	}
	return s, nil
}

func (c *Client) callInt(ctx context.Context, handle, method string, args ...any) (int, error) {
	raw, err := c.invoke(ctx, handle, method, args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%s: decode result: %w", method, err)
	}
	return n, nil
}

// callHandle invokes a method that returns an object reference. A null
// result means the host has nothing to return.
func (c *Client) callHandle(ctx context.Context, handle, method string, args ...any) (string, error) {
	raw, err := c.invoke(ctx, handle, method, args...)
	if err != nil {
		return "", err
	}
	if isNull(raw) {
		return "", nil
	}
	var ref handleRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", fmt.Errorf("%s: decode handle: %w", method, err)
	}
	return ref.Handle, nil
}

func (c *Client) callHandles(ctx context.Context, handle, method string, args ...any) ([]string, error) {
	raw, err := c.invoke(ctx, handle, method, args...)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	var refs []handleRef
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, fmt.Errorf("%s: decode handles: %w", method, err)
	}
	handles := make([]string, len(refs))
	for i, r := range refs {
		handles[i] = r.Handle
	}
	return handles, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Version implements resolve.Host.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.callString(ctx, rootHandle, "GetVersionString")
}

// CurrentProject implements resolve.Host.
func (c *Client) CurrentProject(ctx context.Context) (resolve.Project, error) {
	h, err := c.callHandle(ctx, rootHandle, "GetCurrentProject")
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.ErrNoProject
	}
	return &project{c: c, h: h}, nil
}

// LoadProject implements resolve.Host.
func (c *Client) LoadProject(ctx context.Context, name string) (resolve.Project, error) {
	h, err := c.callHandle(ctx, rootHandle, "LoadProject", name)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.Refused("LoadProject " + name)
	}
	return &project{c: c, h: h}, nil
}

// CreateProject implements resolve.Host.
func (c *Client) CreateProject(ctx context.Context, name string) (resolve.Project, error) {
	h, err := c.callHandle(ctx, rootHandle, "CreateProject", name)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.Refused("CreateProject " + name)
	}
	return &project{c: c, h: h}, nil
}

// ProjectNames implements resolve.Host.
func (c *Client) ProjectNames(ctx context.Context) ([]string, error) {
	raw, err := c.invoke(ctx, rootHandle, "GetProjectListInCurrentFolder")
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("GetProjectListInCurrentFolder: decode result: %w", err)
	}
	return names, nil
}

// ExportProject implements resolve.Host.
func (c *Client) ExportProject(ctx context.Context, name, path string) error {
	return c.callBool(ctx, rootHandle, "ExportProject", name, path)
}

// ImportProject implements resolve.Host.
func (c *Client) ImportProject(ctx context.Context, path string) error {
	return c.callBool(ctx, rootHandle, "ImportProject", path)
}
