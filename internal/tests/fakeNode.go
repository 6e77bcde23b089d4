package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Layr-Labs/mugen-go/pkg/types"
)

// RelayRequest mirrors the body the relay endpoint accepts.
type RelayRequest struct {
	TypedData struct {
		Domain struct {
			Name              string `json:"name"`
			Version           string `json:"version"`
			ChainId           uint64 `json:"chainId"`
			VerifyingContract string `json:"verifyingContract"`
		} `json:"domain"`
		Types       map[string][]map[string]string `json:"types"`
		PrimaryType string                         `json:"primaryType"`
		Message     struct {
			App         string `json:"app"`
			Nonce       uint64 `json:"nonce"`
			MaxGasPrice uint64 `json:"max_gas_price"`
			Data        string `json:"data"`
		} `json:"message"`
	} `json:"typedData"`
	Account   string `json:"account"`
	Signature string `json:"signature"`
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// FakeNode is an in-process rollups node exposing the nonce authority, the relay
// endpoint and the GraphQL indexer.
type FakeNode struct {
	Server *httptest.Server

	mu sync.Mutex

	// StatusOverrides forces a status code per path ("/nonce", "/submit", "/graphql").
	StatusOverrides map[string]int

	// Outputs is returned by the batch query.
	Outputs []*types.Output

	// OutputLookup answers single output queries. call counts from 1 per index.
	OutputLookup func(index uint64, call int) *types.Output

	nonces        map[string]uint64
	submissions   []*RelayRequest
	nonceCalls    int
	batchCalls    int
	outputCalls   map[uint64]int
	submitCounter int
}

func NewFakeNode(t *testing.T) *FakeNode {
	f := &FakeNode{
		StatusOverrides: make(map[string]int),
		nonces:          make(map[string]uint64),
		outputCalls:     make(map[uint64]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/nonce", f.handleNonce)
	mux.HandleFunc("/submit", f.handleSubmit)
	mux.HandleFunc("/graphql", f.handleGraphql)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeNode) URL(path string) string {
	return f.Server.URL + path
}

func (f *FakeNode) SetStatus(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusOverrides[path] = status
}

// SetNonce presets the next nonce the authority reports for a pair.
func (f *FakeNode) SetNonce(sender, app string, nonce uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonces[nonceKey(sender, app)] = nonce
}

func (f *FakeNode) Submissions() []*RelayRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*RelayRequest, len(f.submissions))
	copy(out, f.submissions)
	return out
}

func (f *FakeNode) NonceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonceCalls
}

func (f *FakeNode) BatchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchCalls
}

func (f *FakeNode) OutputCalls(index uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outputCalls[index]
}

func nonceKey(sender, app string) string {
	return strings.ToLower(sender) + "|" + strings.ToLower(app)
}

// override reports a forced status. Callers hold f.mu.
func (f *FakeNode) override(w http.ResponseWriter, path string) bool {
	status, ok := f.StatusOverrides[path]
	if !ok {
		return false
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(http.StatusText(status)))
	return true
}

func (f *FakeNode) handleNonce(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonceCalls++
	if f.override(w, "/nonce") {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		MsgSender   string `json:"msg_sender"`
		AppContract string `json:"app_contract"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MsgSender == "" || req.AppContract == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]uint64{"nonce": f.nonces[nonceKey(req.MsgSender, req.AppContract)]})
}

func (f *FakeNode) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.override(w, "/submit") {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	key := nonceKey(req.Account, req.TypedData.Message.App)
	if req.TypedData.Message.Nonce != f.nonces[key] {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("wrong nonce"))
		return
	}
	f.nonces[key]++
	f.submissions = append(f.submissions, &req)
	f.submitCounter++
	writeJSON(w, map[string]string{"id": fmt.Sprintf("0x%064x", f.submitCounter)})
}

func (f *FakeNode) handleGraphql(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.override(w, "/graphql") {
		return
	}
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if raw, ok := req.Variables["outputIndex"]; ok {
		index := uint64(raw.(float64))
		f.outputCalls[index]++
		var out *types.Output
		if f.OutputLookup != nil {
			out = f.OutputLookup(index, f.outputCalls[index])
		}
		writeJSON(w, map[string]interface{}{"data": map[string]interface{}{"voucher": out}})
		return
	}

	f.batchCalls++
	edges := make([]map[string]interface{}, 0, len(f.Outputs))
	for _, o := range f.Outputs {
		edges = append(edges, map[string]interface{}{"node": o})
	}
	writeJSON(w, map[string]interface{}{
		"data": map[string]interface{}{
			"vouchers": map[string]interface{}{"edges": edges},
		},
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
