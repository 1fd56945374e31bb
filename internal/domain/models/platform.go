// internal/domain/models/platform.go
package models

// Platform-side object snapshots. These mirror what the chat platform returns
// for guild objects, reduced to the fields the workflows actually touch, so
// feature packages and test fakes never import the platform SDK directly.

// ChannelType distinguishes the two channel kinds the bot provisions.
type ChannelType int

const (
	ChannelTypeText ChannelType = iota
	ChannelTypeCategory
)

// Channel is a guild channel (text channel or category).
type Channel struct {
	ID       string
	Name     string
	Type     ChannelType
	ParentID string // category id for text channels, empty for categories
	Topic    string
}

// Role is a guild role.
type Role struct {
	ID   string
	Name string
}

// Member is a guild member resolved from a member identifier.
type Member struct {
	ID       string
	Username string
	Nickname string
	RoleIDs  []string
}

// DisplayName returns the name announcements should use: the guild nickname
// when set, otherwise the account username.
func (m *Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.Username
}

// Mention returns the platform mention string for the member.
func (m *Member) Mention() string {
	return "<@" + m.ID + ">"
}

// HasRole reports whether the member currently holds the given role.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// ChannelSpec describes a text channel to create under a category, locked to
// the region role: @everyone is denied view, the role gets view/send/history.
type ChannelSpec struct {
	Name        string
	ParentID    string
	Topic       string
	AllowRoleID string
}
