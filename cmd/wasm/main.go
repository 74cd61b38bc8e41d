//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"
	"time"

	"github.com/smallyu/go-btc-visual/pkg/btcviz"
)

// Go only hands control back to the page when every goroutine is blocked,
// so mining sleeps between batches instead of calling runtime.Gosched.
var viz = btcviz.New(btcviz.WithMiningYield(btcviz.SleepYield(time.Millisecond)))

// mining runs are cancelled from the page through stopMining
var stopMining context.CancelFunc = func() {}

func main() {
	c := make(chan struct{})

	fmt.Println("go-btc-visual WASM initialized")

	js.Global().Set("GoBTCViz", map[string]interface{}{
		"solveY":          js.FuncOf(solveY),
		"addPoints":       js.FuncOf(addPoints),
		"scalarMult":      js.FuncOf(scalarMult),
		"scalarMultSteps": js.FuncOf(scalarMultSteps),
		"digest":          js.FuncOf(digest),
		"pairAndHash":     js.FuncOf(pairAndHash),
		"merkleRoot":      js.FuncOf(merkleRoot),
		"merkleTree":      js.FuncOf(merkleTree),
		"mine":            js.FuncOf(mine),
		"publicKey":       js.FuncOf(publicKey),
		"schnorrSign":     js.FuncOf(schnorrSign),
		"schnorrVerify":   js.FuncOf(schnorrVerify),
		"splitSecret":     js.FuncOf(splitSecret),
		"reconstruct":     js.FuncOf(reconstruct),
		"lockHTLC":        js.FuncOf(lockHTLC),
		"claimHTLC":       js.FuncOf(claimHTLC),
		"refundHTLC":      js.FuncOf(refundHTLC),
		"stopMining":      js.FuncOf(func(js.Value, []js.Value) interface{} { stopMining(); return nil }),
	})

	<-c
}

// solveY(x, a, b) -> number | null
func solveY(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (x, a, b)"
	}
	y, ok := viz.SolveY(args[0].Float(), args[1].Float(), args[2].Float())
	if !ok {
		return nil
	}
	return y
}

// addPoints(p1, p2, a) -> {x, y} | null
func addPoints(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (p1, p2, a)"
	}
	sum := viz.AddPoints(decodePoint(args[0]), decodePoint(args[1]), args[2].Float())
	if !btcviz.Finite(sum) {
		return errorString(btcviz.ErrNonFinite)
	}
	return encodePoint(sum)
}

// scalarMult(k, p, a) -> {x, y} | null
func scalarMult(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (k, p, a)"
	}
	p, err := viz.ScalarMultBounded(args[0].Int(), decodePoint(args[1]), args[2].Float())
	if err != nil {
		return errorString(err)
	}
	return encodePoint(p)
}

// scalarMultSteps(k, p, a) -> [{x, y} | null, ...]
func scalarMultSteps(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (k, p, a)"
	}
	steps, err := viz.ScalarMultSteps(args[0].Int(), decodePoint(args[1]), args[2].Float())
	if err != nil {
		return errorString(err)
	}
	out := make([]interface{}, len(steps))
	for i, s := range steps {
		if !btcviz.Finite(s) {
			return errorString(btcviz.ErrNonFinite)
		}
		out[i] = encodePoint(s)
	}
	return out
}

// digest(message, double?) -> Promise<{hex, binary}>
// Failures resolve to {hex: "Error: ...", binary: ""} so the page can render them.
func digest(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return "error: expected 1 argument (message)"
	}
	msg := args[0].String()
	double := len(args) > 1 && args[1].Truthy()
	return promise(func() interface{} {
		d := viz.DigestOrSentinel(msg, double)
		return map[string]interface{}{"hex": d.Hex, "binary": d.Binary}
	})
}

// pairAndHash(level) -> Promise<string[]>
func pairAndHash(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (level)"
	}
	level := decodeStrings(args[0])
	return promise(func() interface{} {
		next, err := viz.PairAndHash(level)
		if err != nil {
			return errorString(err)
		}
		return encodeStrings(next)
	})
}

// merkleRoot(leaves) -> Promise<string>
func merkleRoot(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (leaves)"
	}
	leaves := decodeStrings(args[0])
	return promise(func() interface{} {
		root, err := viz.MerkleRoot(leaves)
		if err != nil {
			return errorString(err)
		}
		return root
	})
}

// merkleTree(leaves) -> Promise<string[][]>
func merkleTree(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (leaves)"
	}
	leaves := decodeStrings(args[0])
	return promise(func() interface{} {
		levels, err := viz.MerkleTree(leaves)
		if err != nil {
			return errorString(err)
		}
		out := make([]interface{}, len(levels))
		for i, l := range levels {
			out[i] = encodeStrings(l)
		}
		return out
	})
}

// mine(data, difficulty, onAttempt?) -> Promise<{found, nonce, hash, attempts}>
// A running search is abandoned by calling stopMining().
func mine(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return "error: expected at least 2 arguments (data, difficulty)"
	}
	data, difficulty := args[0].String(), args[1].Int()
	var onAttempt func(btcviz.MineAttempt)
	if len(args) > 2 && args[2].Type() == js.TypeFunction {
		cb := args[2]
		onAttempt = func(a btcviz.MineAttempt) {
			cb.Invoke(float64(a.Nonce), a.Digest.Hex)
		}
	}

	stopMining()
	ctx, cancel := context.WithCancel(context.Background())
	stopMining = cancel

	return promise(func() interface{} {
		defer cancel()
		res, err := viz.Mine(ctx, data, difficulty, onAttempt)
		out := map[string]interface{}{
			"found":    res.Found,
			"nonce":    float64(res.Last.Nonce),
			"hash":     res.Last.Digest.Hex,
			"attempts": float64(res.Attempts),
		}
		if err != nil {
			out["error"] = err.Error()
		}
		return out
	})
}

// publicKey(curve, privHex) -> {curve, public_key, hash160?}
func publicKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (curve, privHex)"
	}
	key, err := viz.PublicKey(args[0].String(), args[1].String())
	if err != nil {
		return errorString(err)
	}
	out := map[string]interface{}{"curve": key.Curve, "public_key": key.PublicKey}
	if key.Hash160 != "" {
		out["hash160"] = key.Hash160
	}
	return out
}

// schnorrSign(privHex, message) -> {public_key, r, s}
func schnorrSign(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (privHex, message)"
	}
	sig, err := viz.SchnorrSign(args[0].String(), args[1].String())
	if err != nil {
		return errorString(err)
	}
	return map[string]interface{}{"public_key": sig.PublicKey, "r": sig.R, "s": sig.S}
}

// schnorrVerify({public_key, r, s}, message) -> bool
func schnorrVerify(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (signature, message)"
	}
	sig := btcviz.SchnorrSignature{
		PublicKey: args[0].Get("public_key").String(),
		R:         args[0].Get("r").String(),
		S:         args[0].Get("s").String(),
	}
	ok, err := viz.SchnorrVerify(sig, args[1].String())
	if err != nil {
		return errorString(err)
	}
	return ok
}

// splitSecret(secretHex, threshold, n) -> [{index, value}, ...]
func splitSecret(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (secretHex, threshold, n)"
	}
	shares, err := viz.SplitSecret(args[0].String(), args[1].Int(), args[2].Int())
	if err != nil {
		return errorString(err)
	}
	out := make([]interface{}, len(shares))
	for i, s := range shares {
		out[i] = map[string]interface{}{"index": s.Index, "value": s.Value}
	}
	return out
}

// reconstruct([{index, value}, ...]) -> secretHex
func reconstruct(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (shares)"
	}
	shares := make([]btcviz.SecretShare, args[0].Length())
	for i := range shares {
		v := args[0].Index(i)
		shares[i] = btcviz.SecretShare{Index: v.Get("index").Int(), Value: v.Get("value").String()}
	}
	secret, err := viz.ReconstructSecret(shares)
	if err != nil {
		return errorString(err)
	}
	return secret
}

// lockHTLC(secretHex | "", expiry) -> {contract, secret}
func lockHTLC(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (secretHex, expiry)"
	}
	c, secret, err := viz.LockHTLC(args[0].String(), uint32(args[1].Int()))
	if err != nil {
		return errorString(err)
	}
	return map[string]interface{}{"contract": encodeContract(c), "secret": secret}
}

// claimHTLC(contract, preimageHex, height) -> contract
func claimHTLC(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (contract, preimageHex, height)"
	}
	c, err := viz.ClaimHTLC(decodeContract(args[0]), args[1].String(), uint32(args[2].Int()))
	if err != nil {
		return errorString(err)
	}
	return encodeContract(c)
}

// refundHTLC(contract, height) -> contract
func refundHTLC(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (contract, height)"
	}
	c, err := viz.RefundHTLC(decodeContract(args[0]), uint32(args[1].Int()))
	if err != nil {
		return errorString(err)
	}
	return encodeContract(c)
}

func encodeContract(c btcviz.Contract) interface{} {
	out := map[string]interface{}{"hash": c.Hash, "expiry": c.Expiry, "state": c.State}
	if c.Preimage != "" {
		out["preimage"] = c.Preimage
	}
	return out
}

func decodeContract(v js.Value) btcviz.Contract {
	c := btcviz.Contract{
		Hash:   v.Get("hash").String(),
		Expiry: uint32(v.Get("expiry").Int()),
		State:  v.Get("state").String(),
	}
	if p := v.Get("preimage"); p.Type() == js.TypeString {
		c.Preimage = p.String()
	}
	return c
}

func errorString(err error) string {
	return fmt.Sprintf("error: %v", err)
}

// promise runs fn off the JS event loop and resolves with its result.
func promise(fn func() interface{}) js.Value {
	var handler js.Func
	handler = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		go func() {
			defer handler.Release()
			resolve.Invoke(fn())
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}

func decodePoint(v js.Value) btcviz.Point {
	if v.IsNull() || v.IsUndefined() {
		return btcviz.Infinity()
	}
	return btcviz.NewPoint(v.Get("x").Float(), v.Get("y").Float())
}

// encodePoint maps infinity to null. Callers reject non-finite points first.
func encodePoint(p btcviz.Point) interface{} {
	if p.IsInfinity() {
		return nil
	}
	return map[string]interface{}{"x": p.X, "y": p.Y}
}

func decodeStrings(v js.Value) []string {
	out := make([]string, v.Length())
	for i := range out {
		out[i] = v.Index(i).String()
	}
	return out
}

func encodeStrings(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
