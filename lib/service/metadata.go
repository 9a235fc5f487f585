package service

import (
	"github.com/heraerp/heracore/common"
)

// ValidateMetadata enforces the closed key set for free-form metadata
// columns. The metadata bag is for system bookkeeping only; anything that
// looks like business data is rejected and pointed at dynamic_data.
func ValidateMetadata(metadata map[string]interface{}) error {
	for key := range metadata {
		if !common.AllowedMetadataKeys[key] {
			return &MetadataKeyError{Key: key}
		}
	}
	return nil
}
