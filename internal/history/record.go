// Package history keeps an append-only, tamper-evident journal of finished
// jobs. Each record is hash-chained to its predecessor and signed with the
// runner's ed25519 key, so `kittenci history verify` can detect edits to
// the journal file after the fact.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Record is one finished job.
type Record struct {
	Seq         int    `json:"seq"`
	Timestamp   string `json:"timestamp"`
	RunID       string `json:"runId"`
	Job         string `json:"job"`
	MatrixValue string `json:"matrixValue"`
	Verdict     string `json:"verdict"` // "passed" or "failed"
	LogHash     string `json:"logHash"` // sha256 over the job's concatenated step logs
	PrevHash    string `json:"prevHash"`
	Hash        string `json:"hash"`
	Signature   string `json:"signature"`
	PubKey      string `json:"pubKey"`
}

// canonicalData returns the JSON bytes the record hash is computed over.
// Hash, Signature and PubKey are excluded.
func (r *Record) canonicalData() ([]byte, error) {
	view := struct {
		Seq         int    `json:"seq"`
		Timestamp   string `json:"timestamp"`
		RunID       string `json:"runId"`
		Job         string `json:"job"`
		MatrixValue string `json:"matrixValue"`
		Verdict     string `json:"verdict"`
		LogHash     string `json:"logHash"`
		PrevHash    string `json:"prevHash"`
	}{r.Seq, r.Timestamp, r.RunID, r.Job, r.MatrixValue, r.Verdict, r.LogHash, r.PrevHash}
	return json.Marshal(view)
}

// ComputeHash calculates the sha256 over canonicalData.
func (r *Record) ComputeHash() (string, error) {
	data, err := r.canonicalData()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func newRecord(seq int, runID, job, matrixValue, verdict, logHash, prevHash string) (*Record, error) {
	rec := &Record{
		Seq:         seq,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		RunID:       runID,
		Job:         job,
		MatrixValue: matrixValue,
		Verdict:     verdict,
		LogHash:     logHash,
		PrevHash:    prevHash,
	}
	h, err := rec.ComputeHash()
	if err != nil {
		return nil, fmt.Errorf("compute record hash: %w", err)
	}
	rec.Hash = h
	return rec, nil
}
