package session

import (
	"sync"

	"fxconvert/internal/domain/model"
)

// Results is the ordered, append-only list of conversions made during one
// interactive session.
type Results struct {
	mutex   sync.RWMutex
	results []model.ConversionResult
}

func NewResults() *Results {
	return &Results{}
}

func (r *Results) Append(result model.ConversionResult) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.results = append(r.results, result)
}

// All returns a copy in insertion order.
func (r *Results) All() []model.ConversionResult {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]model.ConversionResult, len(r.results))
	copy(out, r.results)
	return out
}

func (r *Results) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.results)
}
