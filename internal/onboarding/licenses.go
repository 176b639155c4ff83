package onboarding

// License is an entry of the license choice.
type License struct {
	SPDX string
	Name string
}

// LicenseCustom selects a license that is described in a follow-up step.
const LicenseCustom = "custom"

// DefaultLicense is preselected in the license step.
const DefaultLicense = "LGPL-3.0-only"

// Licenses lists the selectable licenses sorted by name.
var Licenses = []License{
	{SPDX: "ARR", Name: "All Rights Reserved"},
	{SPDX: "Apache-2.0", Name: "Apache License 2.0"},
	{SPDX: "BSD-3-Clause", Name: "BSD 3-Clause"},
	{SPDX: "CC0-1.0", Name: "Creative Commons Zero 1.0"},
	{SPDX: LicenseCustom, Name: "Custom"},
	{SPDX: "GPL-3.0-only", Name: "GNU GPL 3.0"},
	{SPDX: "LGPL-3.0-only", Name: "GNU LGPL 3.0"},
	{SPDX: "MIT", Name: "MIT License"},
	{SPDX: "MPL-2.0", Name: "Mozilla Public License 2.0"},
	{SPDX: "Unlicense", Name: "The Unlicense"},
}

func licenseIDs() []string {
	ids := make([]string, 0, len(Licenses))
	for _, l := range Licenses {
		ids = append(ids, l.SPDX)
	}
	return ids
}
