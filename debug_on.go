//go:build arenadebug

package arena

// Built with -tags arenadebug, fatal assertions trap into the debugger.
const debugBreak = true
