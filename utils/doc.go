// Package utils provides internal utility functions shared by the LDM packages.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Great-circle distance calculation
//   - Wall-clock helpers in the microsecond and second units used by the stores
//   - Time formatting for API responses
package utils
