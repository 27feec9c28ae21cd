package history

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Journal is the append-only JSONL record store. Records live in memory and
// are flushed to disk one JSON object per line on every append.
type Journal struct {
	mu      sync.Mutex
	records []*Record
	path    string
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
}

// Open loads an existing journal file or starts an empty one, and ensures
// the signing keypair exists under keyDir.
func Open(path, keyDir string) (*Journal, error) {
	pub, priv, err := ensureKeys(keyDir)
	if err != nil {
		return nil, err
	}

	j := &Journal{path: path, priv: priv, pub: pub}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		j.records = append(j.records, &rec)
	}
	return j, nil
}

// Append records a finished job, chains it to the previous record, signs it
// and persists it.
func (j *Journal) Append(runID, job, matrixValue, verdict, logHash string) (*Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	prevHash := ""
	if n := len(j.records); n > 0 {
		prevHash = j.records[n-1].Hash
	}

	rec, err := newRecord(len(j.records), runID, job, matrixValue, verdict, logHash, prevHash)
	if err != nil {
		return nil, err
	}
	rec.Signature = hex.EncodeToString(ed25519.Sign(j.priv, []byte(rec.Hash)))
	rec.PubKey = hex.EncodeToString(j.pub)

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}

	j.records = append(j.records, rec)
	return rec, nil
}

// Records returns the journal contents in append order.
func (j *Journal) Records() []*Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*Record, len(j.records))
	copy(out, j.records)
	return out
}

// Verify recomputes every record hash, chain link and signature.
func (j *Journal) Verify() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, rec := range j.records {
		h, err := rec.ComputeHash()
		if err != nil {
			return fmt.Errorf("compute hash for seq %d: %w", rec.Seq, err)
		}
		if h != rec.Hash {
			return fmt.Errorf("hash mismatch at seq %d", rec.Seq)
		}
		if i > 0 && rec.PrevHash != j.records[i-1].Hash {
			return fmt.Errorf("chain broken at seq %d", rec.Seq)
		}
		if rec.Seq != i {
			return fmt.Errorf("seq mismatch: expected %d, got %d", i, rec.Seq)
		}
		ok, err := verifySignature(rec.PubKey, rec.Hash, rec.Signature)
		if err != nil {
			return fmt.Errorf("check signature at seq %d: %w", rec.Seq, err)
		}
		if !ok {
			return fmt.Errorf("bad signature at seq %d", rec.Seq)
		}
	}
	return nil
}
