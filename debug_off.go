//go:build !arenadebug

package arena

const debugBreak = false
