// internal/domain/models/region.go
package models

// Terminology: Regions and Localities
//   - Region: a top-level grouping (a US state) with its own role, category,
//     and general channel, provisioned up front.
//   - Locality: a sub-region (a city) whose text channel is created under the
//     region's category on first demand.

// RegionConfig holds the platform object ids provisioned for one region.
// Entries are produced by the provisioning job and read-only for the lifetime
// of the onboarding service. Stale ids are a failure at use time, not at load
// time.
type RegionConfig struct {
	Slug             string `json:"slug"`
	DisplayName      string `json:"display_name"`
	CategoryID       string `json:"category_id"`
	GeneralChannelID string `json:"general_channel_id"`
	RoleID           string `json:"role_id"`
}
