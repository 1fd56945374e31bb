package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// FakeGuild is an in-memory stand-in for the platform capability boundary.
// It satisfies the guild interfaces declared by the onboarding, provision,
// and greeter features. Safe for concurrent use, so tests can exercise
// concurrent workflows against it.
type FakeGuild struct {
	mu sync.Mutex

	GuildName string

	members    map[string]*models.Member
	channels   []models.Channel
	roles      []models.Role
	overwrites map[string]map[string]int // channelID → memberID → grant count
	messages   map[string][]string       // channelID → sent contents
	dms        map[string][]string       // memberID → sent contents
	adminIDs   map[string]bool

	nextID int

	// Errs injects a failure for the named operation ("CreateRole",
	// "SendMessage", ...). The error is returned on every call until cleared.
	Errs map[string]error

	// FailDMFor simulates members with DMs disabled.
	FailDMFor map[string]bool
}

// NewFakeGuild creates an empty fake guild.
func NewFakeGuild() *FakeGuild {
	return &FakeGuild{
		GuildName:  "Test Guild",
		members:    make(map[string]*models.Member),
		overwrites: make(map[string]map[string]int),
		messages:   make(map[string][]string),
		dms:        make(map[string][]string),
		Errs:       make(map[string]error),
		FailDMFor:  make(map[string]bool),
	}
}

func (f *FakeGuild) errFor(op string) error {
	return f.Errs[op]
}

func (f *FakeGuild) id(prefix string) string {
	f.nextID++
	return prefix + "-" + strconv.Itoa(f.nextID)
}

// --- fixture helpers ---

// PutMember seeds a guild member.
func (f *FakeGuild) PutMember(m models.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := m
	f.members[m.ID] = &copied
}

// PutChannel seeds a channel and returns its id.
func (f *FakeGuild) PutChannel(ch models.Channel) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch.ID == "" {
		ch.ID = f.id("chan")
	}
	f.channels = append(f.channels, ch)
	return ch.ID
}

// PutRole seeds a role and returns its id.
func (f *FakeGuild) PutRole(r models.Role) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = f.id("role")
	}
	f.roles = append(f.roles, r)
	return r.ID
}

// --- inspection helpers ---

// MessagesIn returns the messages sent to a channel, in order.
func (f *FakeGuild) MessagesIn(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages[channelID]...)
}

// DMsTo returns the direct messages sent to a member.
func (f *FakeGuild) DMsTo(memberID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dms[memberID]...)
}

// OverwriteCount returns how many times access was granted to the member on
// the channel. Idempotent re-runs still increment this; the final overwrite
// state is identical either way.
func (f *FakeGuild) OverwriteCount(channelID, memberID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overwrites[channelID][memberID]
}

// ChannelsNamed returns all channels with the given name.
func (f *FakeGuild) ChannelsNamed(name string) []models.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Channel
	for _, ch := range f.channels {
		if ch.Name == name {
			out = append(out, ch)
		}
	}
	return out
}

// MemberRoles returns the member's current role ids.
func (f *FakeGuild) MemberRoles(memberID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok {
		return nil
	}
	return append([]string(nil), m.RoleIDs...)
}

// --- guild operations (the feature interfaces) ---

func (f *FakeGuild) Name() string {
	return f.GuildName
}

func (f *FakeGuild) Member(_ context.Context, memberID string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("Member"); err != nil {
		return nil, err
	}
	m, ok := f.members[memberID]
	if !ok {
		return nil, fmt.Errorf("fake guild: member %s: %w", memberID, guild.ErrNotFound)
	}
	copied := *m
	copied.RoleIDs = append([]string(nil), m.RoleIDs...)
	return &copied, nil
}

func (f *FakeGuild) AddMemberRole(_ context.Context, memberID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddMemberRole"); err != nil {
		return err
	}
	m, ok := f.members[memberID]
	if !ok {
		return fmt.Errorf("fake guild: member %s: %w", memberID, guild.ErrNotFound)
	}
	// Redundant grants are a no-op, like the real platform.
	if !m.HasRole(roleID) {
		m.RoleIDs = append(m.RoleIDs, roleID)
	}
	return nil
}

func (f *FakeGuild) GrantMemberChannelAccess(_ context.Context, channelID, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("GrantMemberChannelAccess"); err != nil {
		return err
	}
	if f.overwrites[channelID] == nil {
		f.overwrites[channelID] = make(map[string]int)
	}
	f.overwrites[channelID][memberID]++
	return nil
}

func (f *FakeGuild) Channels(_ context.Context) ([]models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("Channels"); err != nil {
		return nil, err
	}
	return append([]models.Channel(nil), f.channels...), nil
}

func (f *FakeGuild) FindTextChannel(ctx context.Context, parentID, name string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("FindTextChannel"); err != nil {
		return nil, err
	}
	for i := range f.channels {
		ch := &f.channels[i]
		if ch.Type == models.ChannelTypeText && ch.ParentID == parentID && ch.Name == name {
			copied := *ch
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *FakeGuild) CreateTextChannel(_ context.Context, spec models.ChannelSpec) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CreateTextChannel"); err != nil {
		return nil, err
	}
	ch := models.Channel{
		ID:       f.id("chan"),
		Name:     spec.Name,
		Type:     models.ChannelTypeText,
		ParentID: spec.ParentID,
		Topic:    spec.Topic,
	}
	f.channels = append(f.channels, ch)
	return &ch, nil
}

func (f *FakeGuild) CreateGeneralChannel(ctx context.Context, spec models.ChannelSpec) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CreateGeneralChannel"); err != nil {
		return nil, err
	}
	ch := models.Channel{
		ID:       f.id("chan"),
		Name:     spec.Name,
		Type:     models.ChannelTypeText,
		ParentID: spec.ParentID,
		Topic:    spec.Topic,
	}
	f.channels = append(f.channels, ch)
	return &ch, nil
}

func (f *FakeGuild) CreateCategory(_ context.Context, name, allowRoleID string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CreateCategory"); err != nil {
		return nil, err
	}
	_ = allowRoleID
	ch := models.Channel{
		ID:   f.id("cat"),
		Name: name,
		Type: models.ChannelTypeCategory,
	}
	f.channels = append(f.channels, ch)
	return &ch, nil
}

func (f *FakeGuild) CreateRole(_ context.Context, name string) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CreateRole"); err != nil {
		return nil, err
	}
	r := models.Role{ID: f.id("role"), Name: name}
	f.roles = append(f.roles, r)
	return &r, nil
}

func (f *FakeGuild) Roles(_ context.Context) ([]models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("Roles"); err != nil {
		return nil, err
	}
	return append([]models.Role(nil), f.roles...), nil
}

func (f *FakeGuild) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("DeleteChannel"); err != nil {
		return err
	}
	for i, ch := range f.channels {
		if ch.ID == channelID {
			f.channels = append(f.channels[:i], f.channels[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fake guild: channel %s: %w", channelID, guild.ErrNotFound)
}

func (f *FakeGuild) DeleteRole(_ context.Context, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("DeleteRole"); err != nil {
		return err
	}
	for i, r := range f.roles {
		if r.ID == roleID {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fake guild: role %s: %w", roleID, guild.ErrNotFound)
}

func (f *FakeGuild) SendMessage(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("SendMessage"); err != nil {
		return err
	}
	f.messages[channelID] = append(f.messages[channelID], content)
	return nil
}

func (f *FakeGuild) DirectMessage(_ context.Context, memberID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("DirectMessage"); err != nil {
		return err
	}
	if f.FailDMFor[memberID] {
		return fmt.Errorf("fake guild: member %s has DMs disabled", memberID)
	}
	f.dms[memberID] = append(f.dms[memberID], content)
	return nil
}

func (f *FakeGuild) IsAdministrator(userID, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("IsAdministrator"); err != nil {
		return false, err
	}
	return f.adminIDs[userID], nil
}

// MakeAdmin marks a user as holding administrator permissions.
func (f *FakeGuild) MakeAdmin(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adminIDs == nil {
		f.adminIDs = make(map[string]bool)
	}
	f.adminIDs[userID] = true
}
