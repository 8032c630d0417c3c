// Package utils provides conversion helpers shared by the registration stores.
// They decode the loosely typed fields of records persisted by older clients.
package utils
