package dialogue

import "github.com/rs/zerolog"

var pkgLogger = zerolog.Nop()

// SetLogger installs the logger used by this package. Must be called
// before any dialogue/dialogues usage if the caller wants core log output;
// by default the package logs nothing, so pulling it in costs a library
// consumer nothing until they opt in.
func SetLogger(l zerolog.Logger) {
	pkgLogger = l
}
