package sim

import (
	"log"
	"regexp"
)

// Named describes an object that has a name.
type Named interface {
	Name() string
}

var nameRegexp = regexp.MustCompile(
	`^[A-Za-z][A-Za-z0-9_]*(\[\d+\])*(\.[A-Za-z][A-Za-z0-9_]*(\[\d+\])*)*$`)

// IsValidName checks if a name follows the hierarchical naming convention,
// for example "GPU[1].VTU[3].L1".
func IsValidName(name string) bool {
	return nameRegexp.MatchString(name)
}

// NameMustBeValid panics if the name does not follow the naming convention.
func NameMustBeValid(name string) {
	if !IsValidName(name) {
		log.Panicf("name %q does not follow the naming convention", name)
	}
}
