package cartridge

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// hostModuleName is the import namespace the guest sees.
const hostModuleName = "host"

// instantiateHostModule exposes the host API to the guest: log, send, and
// frame_buffer. Every function reads borrowed guest memory; anything kept
// past the call (channel payloads) is copied first.
func instantiateHostModule(ctx context.Context, r wazero.Runtime, e *Engine) error {
	_, err := r.NewHostModuleBuilder(hostModuleName).
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, ptr, size uint32) {
			buf, ok := m.Memory().Read(ptr, size)
			if !ok {
				e.env.Log.Warn("cartridge log with out-of-range pointer",
					zap.Uint32("ptr", ptr), zap.Uint32("len", size))
				return
			}
			e.env.Log.Info(string(buf), zap.String("source", "cartridge"))
		}).
		Export("log").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, ptr, size uint32) {
			buf, ok := m.Memory().Read(ptr, size)
			if !ok {
				e.env.Log.Warn("cartridge send with out-of-range pointer",
					zap.Uint32("ptr", ptr), zap.Uint32("len", size))
				return
			}
			payload := make([]byte, len(buf))
			copy(payload, buf)
			e.env.Messages.Send(payload)
		}).
		Export("send").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, ptr, size uint32) {
			buf, ok := m.Memory().Read(ptr, size)
			if !ok {
				e.env.Log.Warn("cartridge frame_buffer with out-of-range pointer",
					zap.Uint32("ptr", ptr), zap.Uint32("len", size))
				return
			}
			if err := e.env.Target.Present(buf); err != nil {
				e.env.Log.Warn("cartridge frame rejected by surface target",
					zap.Error(err))
			}
		}).
		Export("frame_buffer").
		Instantiate(ctx)
	return err
}
