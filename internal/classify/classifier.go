// Package classify maps crime-type labels onto severity tiers and crime natures.
//
// Both lookups are exact string matches against fixed tables. A label that is
// in no table is valid input and classifies as Unknown.
package classify

import "sort"

// Severity is the seriousness tier of a crime type
type Severity string

const (
	SeverityLow     Severity = "Low"
	SeverityMedium  Severity = "Medium"
	SeverityHigh    Severity = "High"
	SeverityUnknown Severity = "Unknown"
)

// Nature groups crime types into violent and property offences
type Nature string

const (
	NatureViolent  Nature = "Violent"
	NatureProperty Nature = "Property"
	NatureUnknown  Nature = "Unknown"
)

// severityTable lists the labels of each tier. New labels go here.
var severityTable = map[Severity][]string{
	SeverityLow:    {"LARCENY-NON VEHICLE", "BURGLARY-NONRES", "AUTO THEFT", "LARCENY-FROM VEHICLE"},
	SeverityMedium: {"BURGLARY-RESIDENCE", "ROBBERY-COMMERCIAL", "ROBBERY-RESIDENCE", "ROBBERY-PEDESTRIAN"},
	SeverityHigh:   {"AGG ASSAULT", "RAPE", "HOMICIDE"},
}

var natureTable = map[Nature][]string{
	NatureViolent:  {"RAPE", "AGG ASSAULT", "HOMICIDE", "ROBBERY-RESIDENCE", "ROBBERY-PEDESTRIAN", "ROBBERY-COMMERCIAL"},
	NatureProperty: {"LARCENY-NON VEHICLE", "LARCENY-FROM VEHICLE", "AUTO THEFT", "BURGLARY-RESIDENCE", "BURGLARY-NONRES"},
}

var (
	severityByLabel = invert(severityTable)
	natureByLabel   = invert(natureTable)
)

func invert[K ~string](table map[K][]string) map[string]K {
	out := make(map[string]K)
	for k, labels := range table {
		for _, label := range labels {
			out[label] = k
		}
	}
	return out
}

// SeverityOf returns the tier for crimeType, or SeverityUnknown
func SeverityOf(crimeType string) Severity {
	if s, ok := severityByLabel[crimeType]; ok {
		return s
	}
	return SeverityUnknown
}

// NatureOf returns the nature for crimeType, or NatureUnknown
func NatureOf(crimeType string) Nature {
	if n, ok := natureByLabel[crimeType]; ok {
		return n
	}
	return NatureUnknown
}

// Classification bundles both lookups for one label
type Classification struct {
	CrimeType string   `json:"crime_type" yaml:"crime_type"`
	Severity  Severity `json:"severity" yaml:"severity"`
	Nature    Nature   `json:"crime_nature" yaml:"crime_nature"`
}

// Classify returns the severity and nature of crimeType
func Classify(crimeType string) Classification {
	return Classification{
		CrimeType: crimeType,
		Severity:  SeverityOf(crimeType),
		Nature:    NatureOf(crimeType),
	}
}

// Labels returns every label known to either table, sorted
func Labels() []string {
	seen := make(map[string]bool)
	for label := range severityByLabel {
		seen[label] = true
	}
	for label := range natureByLabel {
		seen[label] = true
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// ValidSeverity reports whether s is one of the four tiers
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityUnknown:
		return true
	}
	return false
}

// ValidNature reports whether n is one of the three natures
func ValidNature(n string) bool {
	switch Nature(n) {
	case NatureViolent, NatureProperty, NatureUnknown:
		return true
	}
	return false
}
