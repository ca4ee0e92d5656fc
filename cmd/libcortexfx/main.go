package main

/*
#include <stdlib.h>

// topic: event name, payload: JSON
typedef void (*EventCallback)(char* topic, char* payload);

// Go cannot call C function pointers directly.
static void invokeCallback(EventCallback cb, char* topic, char* payload) {
    if (cb) {
        cb(topic, payload);
    }
}
*/
import "C"
import (
	"context"
	"sync"
	"unsafe"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/pkg/app"
	"github.com/dyike/CortexFX/pkg/bridge"
)

var (
	mu             sync.RWMutex
	globalCallback C.EventCallback
	runtime        *app.Runtime
)

func init() {
	bridge.SetNotifyImpl(notify)
}

func notify(topic, payload string) {
	mu.RLock()
	cb := globalCallback
	mu.RUnlock()
	if cb == nil {
		return
	}
	cTopic := C.CString(topic)
	cPayload := C.CString(payload)
	defer C.free(unsafe.Pointer(cTopic))
	defer C.free(unsafe.Pointer(cPayload))

	C.invokeCallback(cb, cTopic, cPayload)
}

//export InitSDK
func InitSDK(workDir *C.char, configJson *C.char) *C.char {
	dir := C.GoString(workDir)
	cfgJSON := C.GoString(configJson)

	mgr, err := config.NewManager(config.WithConfigDir(dir))
	if err != nil {
		return C.CString("Error: " + err.Error())
	}
	if cfgJSON != "" {
		if err := mgr.UpdateFromJSON(cfgJSON); err != nil {
			return C.CString("Error: " + err.Error())
		}
	}
	rt, err := app.NewRuntime(context.Background(), mgr, app.WithNotifier(notify))
	if err != nil {
		return C.CString("Error: " + err.Error())
	}

	mu.Lock()
	runtime = rt
	mu.Unlock()
	return C.CString("Success")
}

//export RegisterCallback
func RegisterCallback(cb C.EventCallback) {
	mu.Lock()
	globalCallback = cb
	mu.Unlock()
}

//export UpdateConfig
func UpdateConfig(jsonStr *C.char) *C.char {
	rt := currentRuntime()
	if rt == nil {
		return C.CString("Error: SDK not initialized")
	}
	if err := rt.UpdateConfigJSON(context.Background(), C.GoString(jsonStr)); err != nil {
		return C.CString("Error: " + err.Error())
	}
	return C.CString("Success")
}

//export Call
func Call(method *C.char, params *C.char) *C.char {
	rt := currentRuntime()
	if rt == nil {
		return C.CString(`{"code":503,"msg":"SDK not initialized"}`)
	}
	resp := rt.Dispatch(context.Background(), C.GoString(method), C.GoString(params))
	return C.CString(resp)
}

//export FreeString
func FreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

func currentRuntime() *app.Runtime {
	mu.RLock()
	defer mu.RUnlock()
	return runtime
}

func main() {}
