package soliton

import "fmt"

const (
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
)

// Version returns this module's version string, "soliton vMAJOR.MINOR.PATCH".
func Version() string {
	return fmt.Sprintf("soliton v%d.%d.%d", versionMajor, versionMinor, versionPatch)
}
