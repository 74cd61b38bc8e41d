package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smallyu/go-btc-visual/internal/config"
	"github.com/smallyu/go-btc-visual/pkg/btcviz"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	viz    *btcviz.Visualizer
	cfg    *config.Config
	logger *slog.Logger
}

// pointJSON is a finite point; the point at infinity is encoded as null.
type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoint(p *pointJSON) btcviz.Point {
	if p == nil {
		return btcviz.Infinity()
	}
	return btcviz.NewPoint(p.X, p.Y)
}

func fromPoint(p btcviz.Point) *pointJSON {
	if p.IsInfinity() {
		return nil
	}
	return &pointJSON{X: p.X, Y: p.Y}
}

type errorJSON struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := errorJSON{Error: err.Error()}

	var ie *btcviz.InputError
	switch {
	case errors.As(err, &ie):
		status = http.StatusBadRequest
		body.Field = ie.Field
	case errors.Is(err, btcviz.ErrIndexOutOfRange), errors.Is(err, btcviz.ErrDifficulty):
		status = http.StatusBadRequest
	case errors.Is(err, btcviz.ErrNonFinite):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, btcviz.ErrWrongPreimage), errors.Is(err, btcviz.ErrExpired),
		errors.Is(err, btcviz.ErrNotExpired), errors.Is(err, btcviz.ErrSettled):
		status = http.StatusConflict
	case errors.Is(err, btcviz.ErrCryptoUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		h.logger.Error("request_failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, btcviz.NewInputError(op, "body", err))
		return false
	}
	return true
}

func (h *handlers) solveY(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		A float64 `json:"a"`
		B float64 `json:"b"`
	}
	if !h.decode(w, r, "solveY", &req) {
		return
	}
	resp := struct {
		Y *float64 `json:"y"`
	}{}
	if y, ok := h.viz.SolveY(req.X, req.A, req.B); ok {
		if !finite(y) {
			h.writeError(w, r, btcviz.ErrNonFinite)
			return
		}
		resp.Y = &y
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) addPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		P1 *pointJSON `json:"p1"`
		P2 *pointJSON `json:"p2"`
		A  float64    `json:"a"`
	}
	if !h.decode(w, r, "addPoints", &req) {
		return
	}
	sum := h.viz.AddPoints(toPoint(req.P1), toPoint(req.P2), req.A)
	if !btcviz.Finite(sum) {
		h.writeError(w, r, btcviz.ErrNonFinite)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*pointJSON{"point": fromPoint(sum)})
}

func (h *handlers) scalarMult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		K     int        `json:"k"`
		P     *pointJSON `json:"p"`
		A     float64    `json:"a"`
		Steps bool       `json:"steps"`
	}
	if !h.decode(w, r, "scalarMult", &req) {
		return
	}
	if req.P == nil {
		h.writeError(w, r, btcviz.NewInputError("scalarMult", "p", nil))
		return
	}
	steps, err := h.viz.ScalarMultSteps(req.K, toPoint(req.P), req.A)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	for _, s := range steps {
		if !btcviz.Finite(s) {
			h.writeError(w, r, btcviz.ErrNonFinite)
			return
		}
	}

	resp := struct {
		Point *pointJSON   `json:"point"`
		Steps []*pointJSON `json:"steps,omitempty"`
	}{}
	if len(steps) > 0 {
		resp.Point = fromPoint(steps[len(steps)-1])
	}
	if req.Steps {
		resp.Steps = make([]*pointJSON, len(steps))
		for i, s := range steps {
			resp.Steps[i] = fromPoint(s)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type digestJSON struct {
	Hex    string `json:"hex"`
	Binary string `json:"binary"`
}

func (h *handlers) digest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Double  bool   `json:"double"`
	}
	if !h.decode(w, r, "digest", &req) {
		return
	}
	// the page renders the sentinel, so failures still answer 200
	d := h.viz.DigestOrSentinel(req.Message, req.Double)
	writeJSON(w, http.StatusOK, digestJSON{Hex: d.Hex, Binary: d.Binary})
}

type leavesRequest struct {
	Leaves []string `json:"leaves"`
	Index  int      `json:"index,omitempty"`
}

func (h *handlers) pairAndHash(w http.ResponseWriter, r *http.Request) {
	var req leavesRequest
	if !h.decode(w, r, "pairAndHash", &req) {
		return
	}
	level, err := h.viz.PairAndHash(req.Leaves)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"level": level})
}

func (h *handlers) merkleRoot(w http.ResponseWriter, r *http.Request) {
	var req leavesRequest
	if !h.decode(w, r, "merkleRoot", &req) {
		return
	}
	root, err := h.viz.MerkleRoot(req.Leaves)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"root": root})
}

func (h *handlers) merkleTree(w http.ResponseWriter, r *http.Request) {
	var req leavesRequest
	if !h.decode(w, r, "merkleTree", &req) {
		return
	}
	levels, err := h.viz.MerkleTree(req.Leaves)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][][]string{"levels": levels})
}

func (h *handlers) merkleProof(w http.ResponseWriter, r *http.Request) {
	var req leavesRequest
	if !h.decode(w, r, "merkleProof", &req) {
		return
	}
	proof, err := h.viz.MerkleProof(req.Leaves, req.Index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	root, err := h.viz.MerkleRoot(req.Leaves)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Root  string             `json:"root"`
		Proof []btcviz.ProofStep `json:"proof"`
	}{Root: root, Proof: proof})
}

func (h *handlers) mine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data       string `json:"data"`
		Difficulty int    `json:"difficulty"`
	}
	if !h.decode(w, r, "mine", &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.MiningTimeout)
	defer cancel()

	res, err := h.viz.Mine(ctx, req.Data, req.Difficulty, nil)
	stopped := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if err != nil && !stopped {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Found     bool   `json:"found"`
		Stopped   bool   `json:"stopped"`
		Nonce     uint64 `json:"nonce"`
		Hash      string `json:"hash"`
		Attempts  uint64 `json:"attempts"`
		ElapsedMS int64  `json:"elapsed_ms"`
	}{
		Found:     res.Found,
		Stopped:   stopped,
		Nonce:     res.Last.Nonce,
		Hash:      res.Last.Digest.Hex,
		Attempts:  res.Attempts,
		ElapsedMS: res.Elapsed.Milliseconds(),
	})
}

func (h *handlers) publicKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrivateKey string `json:"private_key"`
	}
	if !h.decode(w, r, "publicKey", &req) {
		return
	}
	key, err := h.viz.PublicKey(chi.URLParam(r, "curve"), req.PrivateKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

func (h *handlers) schnorrSign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrivateKey string `json:"private_key"`
		Message    string `json:"message"`
	}
	if !h.decode(w, r, "schnorrSign", &req) {
		return
	}
	sig, err := h.viz.SchnorrSign(req.PrivateKey, req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (h *handlers) schnorrVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		btcviz.SchnorrSignature
		Message string `json:"message"`
	}
	if !h.decode(w, r, "schnorrVerify", &req) {
		return
	}
	ok, err := h.viz.SchnorrVerify(req.SchnorrSignature, req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": ok})
}

func (h *handlers) splitSecret(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret    string `json:"secret"`
		Threshold int    `json:"threshold"`
		N         int    `json:"n"`
	}
	if !h.decode(w, r, "splitSecret", &req) {
		return
	}
	shares, err := h.viz.SplitSecret(req.Secret, req.Threshold, req.N)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]btcviz.SecretShare{"shares": shares})
}

func (h *handlers) reconstructSecret(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shares []btcviz.SecretShare `json:"shares"`
	}
	if !h.decode(w, r, "reconstructSecret", &req) {
		return
	}
	secret, err := h.viz.ReconstructSecret(req.Shares)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"secret": secret})
}

func (h *handlers) lockHTLC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret string `json:"secret"`
		Expiry uint32 `json:"expiry"`
	}
	if !h.decode(w, r, "lockHTLC", &req) {
		return
	}
	c, secret, err := h.viz.LockHTLC(req.Secret, req.Expiry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Contract btcviz.Contract `json:"contract"`
		Secret   string          `json:"secret"`
	}{c, secret})
}

// settleHTLC claims with a preimage, or refunds when none is given.
func (h *handlers) settleHTLC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contract btcviz.Contract `json:"contract"`
		Preimage string          `json:"preimage"`
		Height   uint32          `json:"height"`
	}
	if !h.decode(w, r, "settleHTLC", &req) {
		return
	}
	var (
		c   btcviz.Contract
		err error
	)
	if req.Preimage != "" {
		c, err = h.viz.ClaimHTLC(req.Contract, req.Preimage, req.Height)
	} else {
		c, err = h.viz.RefundHTLC(req.Contract, req.Height)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]btcviz.Contract{"contract": c})
}

// finite guards the JSON encoder, which rejects NaN and ±Inf.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
