// Package activities turns a YAML manifest of activities into an ordered
// catalog, presents it through a single-selection widget and loads the
// chosen activity's Go script with an embedded interpreter.
//
// Manifest layout:
//
//	- name: Overview
//	  url: overview.go
//	- name: Sensors
//	  url: stations/sensors.go
//	  icon: gauge
//
// The url key holds a script path relative to the activities directory.
// Scripts are interpreted as package main and must declare
//
//	func Render(w io.Writer) error
//
// Loading happens only once an activity has been selected.
package activities
