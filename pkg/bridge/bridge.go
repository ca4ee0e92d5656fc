// Package bridge forwards service events to an embedding host, such as a desktop or
// mobile shell. Without a registered notifier events are dropped.
package bridge

import "sync"

const TopicAnalysisFinished = "analysis.finished"

type NotifyFunc func(topic string, payload string)

var (
	mu   sync.RWMutex
	impl NotifyFunc
)

// SetNotifyImpl registers the host notifier. Passing nil unregisters it.
func SetNotifyImpl(f NotifyFunc) {
	mu.Lock()
	impl = f
	mu.Unlock()
}

func Notify(topic string, payload string) {
	mu.RLock()
	f := impl
	mu.RUnlock()
	if f != nil {
		f(topic, payload)
	}
}
