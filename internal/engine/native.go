//go:build mo2engine

package engine

// The native binding loads the engine with dlopen and resolves its two
// exported symbols: setLogCallback(void (*)(const char*)) and
// install(const char*, const char*) -> const char*. The handle is resolved
// and opened once per process; the log callback is bound once and the Go
// sink stays referenced in goEngineLogBridge's sink slot for the life of
// the process.

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void (*mo2siLogCallback)(const char*);
typedef const char* (*mo2siInstallFn)(const char*, const char*);

extern void goEngineLogBridge(char*);

static void mo2siForwardLog(const char* msg) {
	goEngineLogBridge((char*)msg);
}

static int mo2siBindLogCallback(void* handle) {
	void (*setcb)(mo2siLogCallback);
	*(void**)(&setcb) = dlsym(handle, "setLogCallback");
	if (setcb == NULL) {
		return -1;
	}
	setcb(mo2siForwardLog);
	return 0;
}

static const char* mo2siCallInstall(void* handle, const char* archive, const char* dest, int* missing) {
	const char* (*fn)(const char*, const char*);
	*(void**)(&fn) = dlsym(handle, "install");
	if (fn == NULL) {
		*missing = 1;
		return NULL;
	}
	*missing = 0;
	return fn(archive, dest);
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

type nativeEngine struct {
	name      string
	extraDirs []string

	once    sync.Once
	handle  unsafe.Pointer
	path    string
	loadErr error

	mu sync.Mutex // serializes native calls; the engine has no thread model of its own
}

// NewNativeEngine returns the dlopen-backed binding for name (empty means
// DefaultEngineName), probing extraDirs in addition to the standard search
// order. The engine file is resolved and loaded lazily on first use and
// cached for the process lifetime.
func NewNativeEngine(name string, extraDirs ...string) Engine {
	if name == "" {
		name = DefaultEngineName
	}
	return &nativeEngine{name: name, extraDirs: extraDirs}
}

func (e *nativeEngine) load() error {
	e.once.Do(func() {
		p, err := ResolveEnginePath(e.name, e.extraDirs...)
		if err != nil {
			e.loadErr = err
			return
		}
		cpath := C.CString(p)
		defer C.free(unsafe.Pointer(cpath))
		h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
		if h == nil {
			e.loadErr = ErrEngineUnavailable(fmt.Sprintf("load %s: %s", p, C.GoString(C.dlerror())))
			return
		}
		e.handle = h
		e.path = p
	})
	return e.loadErr
}

func (e *nativeEngine) RegisterLogSink(sink func(string)) error {
	if sink == nil {
		return errors.New("nil log sink")
	}
	if err := e.load(); err != nil {
		return err
	}
	// Store before binding so no callback can fire against an empty slot.
	storeLogSink(sink)
	e.mu.Lock()
	defer e.mu.Unlock()
	if C.mo2siBindLogCallback(e.handle) != 0 {
		return ErrEngineUnavailable("symbol setLogCallback not found in " + e.path)
	}
	return nil
}

func (e *nativeEngine) Install(ctx context.Context, archivePath, destPath string) (string, error) {
	if err := checkInstallPaths(archivePath, destPath); err != nil {
		return "", err
	}
	if err := e.load(); err != nil {
		return "", err
	}
	// Last cancellation point: the native call itself cannot be interrupted.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ca := C.CString(archivePath)
	defer C.free(unsafe.Pointer(ca))
	cd := C.CString(destPath)
	defer C.free(unsafe.Pointer(cd))

	e.mu.Lock()
	var missing C.int
	res := C.mo2siCallInstall(e.handle, ca, cd, &missing)
	e.mu.Unlock()
	if missing != 0 {
		return "", ErrEngineUnavailable("symbol install not found in " + e.path)
	}
	if res == nil {
		// The engine contract is "returns a string"; a null return means the
		// call never produced one.
		return "", errors.New("engine install returned no result")
	}
	return C.GoString(res), nil
}
