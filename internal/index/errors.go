package index

import "errors"

var (
	// ErrEmptyCorpus indicates Build was called with zero chunks.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrIndexNotReady indicates Search or Save was called before a
	// successful Build or Load.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrCorruptIndex indicates persisted artifacts are missing, mismatched,
	// or unreadable. Recovery requires rebuilding from source documents.
	ErrCorruptIndex = errors.New("corrupt index")
)
