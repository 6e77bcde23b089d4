package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type rpcRequest struct {
	JsonRPC string            `json:"jsonrpc"`
	Id      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// CallRecord is one eth_call seen by the fake RPC.
type CallRecord struct {
	To   string
	Data []byte
}

// FakeRPC answers the handful of JSON-RPC methods needed by read-only contract calls.
type FakeRPC struct {
	Server *httptest.Server

	mu sync.Mutex

	ChainId uint64

	// CallResult is the ABI encoded return data of every eth_call.
	CallResult []byte

	calls []CallRecord
}

func NewFakeRPC(t *testing.T, chainId uint64) *FakeRPC {
	f := &FakeRPC{ChainId: chainId}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeRPC) URL() string {
	return f.Server.URL
}

func (f *FakeRPC) SetCallResult(result []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CallResult = result
}

func (f *FakeRPC) Calls() []CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CallRecord, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeRPC) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var result interface{}
	switch req.Method {
	case "eth_chainId":
		result = hexutil.EncodeUint64(f.ChainId)
	case "eth_blockNumber":
		result = "0x1"
	case "eth_getCode":
		result = "0x6080"
	case "eth_call":
		var call struct {
			To    string         `json:"to"`
			Data  *hexutil.Bytes `json:"data"`
			Input *hexutil.Bytes `json:"input"`
		}
		if len(req.Params) > 0 {
			_ = json.Unmarshal(req.Params[0], &call)
		}
		record := CallRecord{To: strings.ToLower(call.To)}
		switch {
		case call.Input != nil:
			record.Data = *call.Input
		case call.Data != nil:
			record.Data = *call.Data
		}
		f.calls = append(f.calls, record)
		result = hexutil.Encode(f.CallResult)
	default:
		writeJSON(w, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.Id,
			"error":   map[string]interface{}{"code": -32601, "message": fmt.Sprintf("method %s not supported", req.Method)},
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.Id,
		"result":  result,
	})
}
