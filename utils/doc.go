// Package utils provides internal utility functions for the yatriq core.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Time formatting and clock-time parsing
//   - Great-circle distance and presentable distance strings
package utils
