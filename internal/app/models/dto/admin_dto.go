package dto

// UpdateRoleRequest sets a profile's role through the admin panel
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=visiteur athlete membre admin"`
}

// SyncUsersResponse reports what the profile sync pass touched
type SyncUsersResponse struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}
