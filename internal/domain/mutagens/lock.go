package mutagens

import (
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// NewLock returns the lock-mechanism operator over a closed vocabulary of
// kernel and pthread locking primitives.
func NewLock() Operator {
	return newTableOperator(m.OperatorLock, []rule{
		{token: "spin_lock", replacements: []string{"spin_unlock", "mutex_lock", "raw_spin_lock"}},
		{token: "spin_unlock", replacements: []string{"spin_lock", "mutex_unlock", "raw_spin_unlock"}},
		{token: "mutex_lock", replacements: []string{"mutex_unlock", "spin_lock", "down"}},
		{token: "mutex_unlock", replacements: []string{"mutex_lock", "spin_unlock", "up"}},
		{token: "spin_lock_irqsave", replacements: []string{"spin_unlock_irqrestore", "spin_lock"}},
		{token: "spin_unlock_irqrestore", replacements: []string{"spin_lock_irqsave", "spin_unlock"}},
		{token: "pthread_mutex_lock", replacements: []string{"pthread_mutex_unlock"}},
		{token: "pthread_mutex_unlock", replacements: []string{"pthread_mutex_lock"}},
	}, wordBounded)
}
