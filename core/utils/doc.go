// Package utils provides small conversion helpers shared by the feature packages:
// loose integer conversion for map-based inserts and id/key formatting for the
// reconcile indices.
package utils
