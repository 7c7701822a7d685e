//go:build tinygo

package kernel

func captureStack() []byte {
	// No runtime/debug stack capture on bare metal.
	return nil
}
