// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editing sessions, document stores, and clipboard
// transfers.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnEdit(ctx, "Node moved", historyLen)
//	observability.Store().OnPut(ctx, "redis", name, size, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from editing sessions.
type EditorHooks interface {
	// OnEdit records a mutation that produced a history stamp.
	OnEdit(ctx context.Context, desc string, historyLen int)

	// OnUndo and OnRedo record history navigation. cursor is the new position.
	OnUndo(ctx context.Context, cursor int)
	OnRedo(ctx context.Context, cursor int)

	// File events
	OnLoad(ctx context.Context, path string, nodeCount int, duration time.Duration, err error)
	OnSave(ctx context.Context, path string, autosave bool, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnGet records a document read. A miss is reported with found=false.
	OnGet(ctx context.Context, backend, name string, found bool)

	// OnPut records a document write.
	OnPut(ctx context.Context, backend, name string, size int, err error)

	// OnDelete records a document removal.
	OnDelete(ctx context.Context, backend, name string)
}

// =============================================================================
// Clipboard Hooks
// =============================================================================

// ClipboardHooks receives events from clipboard transfers.
type ClipboardHooks interface {
	// OnCopy records a copy or cut.
	OnCopy(ctx context.Context, nodes, edges int, cut bool)

	// OnPaste records a paste attempt.
	OnPaste(ctx context.Context, nodes, edges int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnEdit(context.Context, string, int)                        {}
func (NoopEditorHooks) OnUndo(context.Context, int)                                {}
func (NoopEditorHooks) OnRedo(context.Context, int)                                {}
func (NoopEditorHooks) OnLoad(context.Context, string, int, time.Duration, error)  {}
func (NoopEditorHooks) OnSave(context.Context, string, bool, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, bool)       {}
func (NoopStoreHooks) OnPut(context.Context, string, string, int, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, string)          {}

// NoopClipboardHooks is a no-op implementation of ClipboardHooks.
type NoopClipboardHooks struct{}

func (NoopClipboardHooks) OnCopy(context.Context, int, int, bool)   {}
func (NoopClipboardHooks) OnPaste(context.Context, int, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks    EditorHooks    = NoopEditorHooks{}
	storeHooks     StoreHooks     = NoopStoreHooks{}
	clipboardHooks ClipboardHooks = NoopClipboardHooks{}
	hooksMu        sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editing.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetClipboardHooks registers custom clipboard hooks.
func SetClipboardHooks(h ClipboardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		clipboardHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Clipboard returns the registered clipboard hooks.
func Clipboard() ClipboardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return clipboardHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	storeHooks = NoopStoreHooks{}
	clipboardHooks = NoopClipboardHooks{}
}
