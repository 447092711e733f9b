package core

import (
	"errors"
)

// Import data construction.
var (
	ErrAttributeMissing   = errors.New("required attribute is missing")
	ErrMalformedHierarchy = errors.New("malformed bone hierarchy")
	ErrInconsistentCounts = errors.New("inconsistent attribute counts")
)

var (
	ErrIncompleteBundle = errors.New("skeletal mesh parts are incomplete")
	ErrInvalidSettings  = errors.New("invalid build settings")
	ErrSkeletonMismatch = errors.New("existing skeleton does not match the imported hierarchy")

	ErrPackageCreationFailed = errors.New("package creation failed")
	ErrAssetCommitFailed     = errors.New("asset commit failed")
	ErrAssetNotFound         = errors.New("asset not found")
	ErrInvalidHandle         = errors.New("invalid handle")

	ErrUnknown = errors.New("unknown")
)
