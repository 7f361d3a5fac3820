package scalaraes

import "errors"

// ErrInvalidKeySize is returned by ExpandKey when the key is not exactly
// KeySize bytes.
var ErrInvalidKeySize = errors.New("scalaraes: invalid key size")
