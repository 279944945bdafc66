//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The oto backend hands its float32 sample buffer to the device as raw
// bytes, which assumes little-endian FormatFloat32LE order.
var _ = "Intuition Synth requires a little-endian architecture" + 1
