// Package protocol defines the wire protocol between mdyou and an
// out-of-process tonal palette service.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the current tonal service API version (MAJOR.MINOR.PATCH).
	ProtocolVersion = "1.0.0"

	// MinCompatibleVersion is the oldest service version this host accepts.
	MinCompatibleVersion = "1.0.0"
)

// Version represents a parsed protocol version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a version string in "MAJOR.MINOR.PATCH" format.
func Parse(version string) (Version, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: %s (expected MAJOR.MINOR.PATCH)", version)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version component %q in %s", part, version)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the string representation of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// less reports whether v sorts before o.
func (v Version) less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// IsCompatible checks a service's protocol version against this host.
// The major version must match and the version must not be older than
// MinCompatibleVersion.
func IsCompatible(serviceVersion string) (bool, error) {
	sv, err := Parse(serviceVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse service version: %w", err)
	}

	current := GetCurrentVersion()
	if sv.Major != current.Major {
		return false, fmt.Errorf("incompatible major version: service is %s, mdyou requires %d.x.x", sv, current.Major)
	}

	minVersion, err := Parse(MinCompatibleVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse minimum compatible version: %w", err)
	}
	if sv.less(minVersion) {
		return false, fmt.Errorf("service version %s is too old, minimum required is %s", sv, MinCompatibleVersion)
	}

	return true, nil
}

// GetCurrentVersion returns the current protocol version as a Version struct.
func GetCurrentVersion() Version {
	v, err := Parse(ProtocolVersion)
	if err != nil {
		panic(fmt.Sprintf("invalid ProtocolVersion constant: %v", err))
	}
	return v
}
