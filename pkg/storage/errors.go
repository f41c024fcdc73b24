package storage

import "errors"

// Errors returned by the in-memory store (C4) and disk store (C5). The
// graph service (pkg/service) maps these onto its own error taxonomy.
var (
	ErrGraphNotFound  = errors.New("storage: graph not found")
	ErrGraphExists    = errors.New("storage: graph already exists")
	ErrRecordNotFound = errors.New("storage: record not found")
	ErrOversizedNode  = errors.New("storage: node record exceeds block size")
	ErrOversizedEdge  = errors.New("storage: edge record exceeds block size")
	ErrHeaderOverflow = errors.New("storage: header exceeds the fixed header size")
)
