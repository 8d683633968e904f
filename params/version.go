// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package params

import "fmt"

var (
	// Following vars are injected at build time via -ldflags -X.
	GitCommit string
	GitBranch string
	GitTag    string
)

// Version format: Major.Minor.Build
const (
	VersionMajor    = 0  // Major version - breaking interpreter-architecture changes
	VersionMinor    = 1  // Minor version - new opcodes, fusions, or interfaces
	VersionBuild    = 0  // Build number - auto-incremented
	VersionModifier = "" // Modifier component (alpha, beta, stable)
)

func withModifier(vsn string) string {
	if VersionModifier != "" {
		vsn += "-" + VersionModifier
	}
	return vsn
}

// Version holds the textual version string.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionBuild)

// VersionWithMeta holds the textual version string including metadata.
var VersionWithMeta = withModifier(Version)

// VersionWithCommit appends the short commit hash to VersionWithMeta, if
// one was injected at build time.
func VersionWithCommit(gitCommit string) string {
	vsn := VersionWithMeta
	if len(gitCommit) >= 8 {
		vsn += "-" + gitCommit[:8]
	}
	return vsn
}
