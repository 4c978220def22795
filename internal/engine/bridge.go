//go:build mo2engine

package engine

import "C"

import "sync/atomic"

// logSink holds the Go callback the native engine logs through. It is a
// process-wide slot because the engine's setLogCallback takes a bare
// function pointer with no userdata. The stored value also keeps the sink
// reachable for as long as the engine may call back into us.
var logSink atomic.Value // func(string)

func storeLogSink(sink func(string)) {
	logSink.Store(sink)
}

//export goEngineLogBridge
func goEngineLogBridge(msg *C.char) {
	if msg == nil {
		return
	}
	if fn, ok := logSink.Load().(func(string)); ok && fn != nil {
		fn(C.GoString(msg))
	}
}
