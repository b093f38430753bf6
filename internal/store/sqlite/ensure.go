package sqlite

import (
	"github.com/learnforge/learnforge/internal/auth"
	"github.com/learnforge/learnforge/internal/store"
)

// Ensure the SQLite store implements the storage interfaces.
var (
	_ store.Store     = (*Store)(nil)
	_ auth.Repository = (*Store)(nil)
)
