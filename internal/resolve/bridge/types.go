package bridge

import "encoding/json"

// InvokeRequest is the single RPC shape the bridge helper understands.
type InvokeRequest struct {
	Handle string `json:"handle"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// InvokeResponse carries the raw result of a host call. Object results are
// encoded as {"$handle": "..."} references.
type InvokeResponse struct {
	Result json.RawMessage `json:"result"`
}

// rootHandle addresses the host application object itself. Project manager
// methods are served on the root handle by the bridge helper.
const rootHandle = "resolve"

type handleRef struct {
	Handle string `json:"$handle"`
}

// cdlPayload is the node color data shape on the wire. The host uses
// four-component arrays where the fourth value is unused by the CLI.
type cdlPayload struct {
	Slope      []float64 `json:"slope"`
	Offset     []float64 `json:"offset"`
	Power      []float64 `json:"power"`
	Saturation float64   `json:"saturation"`
}
