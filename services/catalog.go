package services

import (
	"fmt"

	"golang.org/x/exp/slices"

	"miami-getaway-server/models"
)

// variantSchemas lists the required Attrs keys per service type. The
// catalog routes validate against this before persisting, so the shared
// handler never stores a car without a brand or a yacht without a
// capacity.
var variantSchemas = map[string][]string{
	"car":       {"brand", "model", "passengers"},
	"yacht":     {"capacity", "length"},
	"apartment": {"rooms", "bathrooms", "capacity"},
	"villa":     {"rooms", "bathrooms", "capacity"},
}

// ValidateServiceType reports whether t names a known catalog variant.
func ValidateServiceType(t string) bool {
	return slices.Contains(models.ServiceTypes, t)
}

// ValidateServiceAttrs checks the per-variant required attributes.
func ValidateServiceAttrs(serviceType string, attrs map[string]interface{}) error {
	required, ok := variantSchemas[serviceType]
	if !ok {
		return fmt.Errorf("unknown service type %q", serviceType)
	}
	for _, key := range required {
		v, present := attrs[key]
		if !present || v == nil || v == "" {
			return fmt.Errorf("%s requires attribute %q", serviceType, key)
		}
	}
	return nil
}
