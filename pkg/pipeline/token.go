package pipeline

import (
	"sync/atomic"
)

// Token lets another goroutine stop a running batch. The pipeline looks at
// it only between documents.
type Token struct {
	canceled atomic.Bool
}

func NewToken() *Token {
	return &Token{}
}

func (t *Token) Cancel() {
	t.canceled.Store(true)
}

func (t *Token) Canceled() bool {
	if t == nil {
		return false
	}

	return t.canceled.Load()
}
