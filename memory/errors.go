package memory

import "errors"

var (
	// ErrKnowledgeRepositoryRequired is returned when a knowledge repository is not provided.
	ErrKnowledgeRepositoryRequired = errors.New("knowledge repository required")

	// ErrUndoRepositoryRequired is returned when an undo repository is not provided.
	ErrUndoRepositoryRequired = errors.New("undo repository required")

	// ErrAuditRepositoryRequired is returned when an audit repository is not provided.
	ErrAuditRepositoryRequired = errors.New("audit repository required")

	// ErrTrustRepositoryRequired is returned when a trust repository is not provided.
	ErrTrustRepositoryRequired = errors.New("trust repository required")

	// ErrNothingToUndo is returned when the undo buffer is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
)
