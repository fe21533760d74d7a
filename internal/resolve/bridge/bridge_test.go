package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"path/filepath"
	"testing"

	"gradectl/internal/resolve"
	"gradectl/internal/resolve/bridge"
)

// stubBridge answers Bridge.Invoke the way the in-host helper would.
type stubBridge struct{}

func (s *stubBridge) Invoke(req bridge.InvokeRequest, resp *bridge.InvokeResponse) error {
	key := req.Handle + "." + req.Method
	switch key {
	case "resolve.GetVersionString":
		resp.Result = mustJSON("20.1.0")
	case "resolve.GetCurrentProject":
		resp.Result = json.RawMessage("null")
	case "resolve.LoadProject":
		resp.Result = mustJSON(map[string]string{"$handle": "proj-1"})
	case "proj-1.GetName":
		resp.Result = mustJSON("Feature Grade")
	case "proj-1.SetSetting":
		resp.Result = mustJSON(false)
	case "proj-1.GetCurrentTimeline":
		resp.Result = mustJSON(map[string]string{"$handle": "tl-1"})
	case "tl-1.GetTrackCount":
		resp.Result = mustJSON(2)
	case "tl-1.GetItemListInTrack":
		resp.Result = mustJSON([]map[string]string{{"$handle": "item-1"}})
	case "item-1.GetNodeColorData":
		resp.Result = mustJSON(map[string]any{
			"slope":      []float64{1.1, 0.98, 0.92, 1},
			"offset":     []float64{0.02, 0, 0.05, 0},
			"power":      []float64{0.9, 0.95, 1.05, 1},
			"saturation": 1.2,
		})
	case "item-1.SetLUT":
		resp.Result = mustJSON(true)
	case "resolve.Boom":
		return errors.New("host exploded")
	default:
		return fmt.Errorf("unexpected call %s", key)
	}
	return nil
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func startStub(t *testing.T) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "bridge.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen on %s: %v", socket, err)
	}
	t.Cleanup(func() { listener.Close() })

	server := rpc.NewServer()
	if err := server.RegisterName("Bridge", &stubBridge{}); err != nil {
		t.Fatalf("register stub: %v", err)
	}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go server.ServeCodec(jsonrpc.NewServerCodec(conn))
		}
	}()
	return socket
}

func dial(t *testing.T) *bridge.Client {
	t.Helper()
	client, err := bridge.Dial(startStub(t))
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestVersion(t *testing.T) {
	client := dial(t)
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != "20.1.0" {
		t.Fatalf("unexpected version: %q", version)
	}
}

func TestCurrentProjectNullMeansNoProject(t *testing.T) {
	client := dial(t)
	if _, err := client.CurrentProject(context.Background()); !errors.Is(err, resolve.ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}
}

func TestFalseSetterMapsToHostRefused(t *testing.T) {
	client := dial(t)
	project, err := client.LoadProject(context.Background(), "Feature Grade")
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	err = project.SetSetting(context.Background(), "colorScienceMode", "davinciYRGBColorManaged")
	if !errors.Is(err, resolve.ErrHostRefused) {
		t.Fatalf("expected ErrHostRefused, got %v", err)
	}
}

func TestNodeColorDataDecodesFourComponentArrays(t *testing.T) {
	client := dial(t)
	project, err := client.LoadProject(context.Background(), "Feature Grade")
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	timeline, err := project.CurrentTimeline(context.Background())
	if err != nil {
		t.Fatalf("CurrentTimeline returned error: %v", err)
	}
	items, err := timeline.ItemsInVideoTrack(context.Background(), 1)
	if err != nil {
		t.Fatalf("ItemsInVideoTrack returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	cc, err := items[0].NodeColorData(context.Background(), 1)
	if err != nil {
		t.Fatalf("NodeColorData returned error: %v", err)
	}
	if cc.Slope != [3]float64{1.1, 0.98, 0.92} {
		t.Fatalf("unexpected slope: %v", cc.Slope)
	}
	if cc.Saturation != 1.2 {
		t.Fatalf("unexpected saturation: %g", cc.Saturation)
	}
	if err := items[0].SetLUT(context.Background(), 1, "/tmp/test.cube"); err != nil {
		t.Fatalf("SetLUT returned error: %v", err)
	}
}

func TestHostErrorPropagates(t *testing.T) {
	client := dial(t)
	_, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	// Unknown methods surface as RPC errors with the bridge's message.
	if _, err := client.LoadProject(context.Background(), "Feature Grade"); err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
}

func TestDialMissingSocketFails(t *testing.T) {
	if _, err := bridge.Dial(filepath.Join(t.TempDir(), "absent.sock")); err == nil {
		t.Fatal("expected error dialing missing socket")
	}
}

func TestContextCancellation(t *testing.T) {
	client := dial(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Version(ctx); !errors.Is(err, context.Canceled) {
		// The call may still win the race against cancellation; both
		// outcomes are acceptable, but an unexpected error is not.
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
