// Package asc implements the AssemblyScript memory bridge (spec section
// 4.1): the byte-exact layouts AssemblyScript's compiler emits for strings,
// typed arrays, arrays, tagged enums and typed maps, plus the 20-byte
// object header introduced in api-version 0.0.5. No pack example carries an
// AS-heap-layout library, so this package is built directly against
// encoding/binary rather than reaching for a third-party dependency.
package asc

// ABIVersion identifies which AssemblyScript runtime ABI a guest module was
// compiled against. Versions at or below 0.0.4 have no object header and
// export "memory.allocate"; versions at or above 0.0.5 carry the 20-byte
// header and export "allocate" plus "id_of_type".
type ABIVersion uint8

const (
	V0_0_4 ABIVersion = iota
	V0_0_5
)

// HasHeader reports whether objects of this ABI carry the 20-byte object
// header preceding their payload.
func (v ABIVersion) HasHeader() bool { return v >= V0_0_5 }

// ParseABIVersion maps a semver-like "major.minor.patch" api-version string
// from a datasource manifest to the ABI dialect it implies. Anything below
// 0.0.5 uses the pre-header dialect; everything else uses the header
// dialect, matching the original runtime's `version <= Version::new(0,0,4)`
// gate.
func ParseABIVersion(major, minor, patch uint8) ABIVersion {
	if major == 0 && minor == 0 && patch <= 4 {
		return V0_0_4
	}
	return V0_0_5
}
