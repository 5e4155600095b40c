// ABOUTME: Version constants
// ABOUTME: Identifies the product in logs and diagnostics
package version

const (
	// Version is the semantic version of this build.
	Version = "0.1.0"

	// Product is the product name reported in logs.
	Product = "Puretone Engine"

	// Manufacturer identifies the vendor.
	Manufacturer = "Puretone Audio"
)
