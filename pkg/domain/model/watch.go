package model

import (
	"sort"
	"strings"
)

// WatchConfig holds the notification destination and the roster of watched
// AtCoder accounts. It is the only persisted state of acwatch and is always
// saved as a whole record.
type WatchConfig struct {
	Channel string
	Users   []string
}

// NewWatchConfig returns an empty configuration
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{}
}

// HasUser reports whether name is in the roster
func (c *WatchConfig) HasUser(name string) bool {
	for _, u := range c.Users {
		if u == name {
			return true
		}
	}
	return false
}

// AddUser trims name and adds it to the roster. It returns false when the
// name is empty after trimming or already registered.
func (c *WatchConfig) AddUser(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || c.HasUser(name) {
		return false
	}
	c.Users = append(c.Users, name)
	return true
}

// RemoveUser removes name from the roster. Removing an unregistered name is
// a no-op and returns false.
func (c *WatchConfig) RemoveUser(name string) bool {
	name = strings.TrimSpace(name)
	for i, u := range c.Users {
		if u == name {
			c.Users = append(c.Users[:i], c.Users[i+1:]...)
			return true
		}
	}
	return false
}

// SortedUsers returns the roster in lexicographic order for display
func (c *WatchConfig) SortedUsers() []string {
	users := make([]string, len(c.Users))
	copy(users, c.Users)
	sort.Strings(users)
	return users
}

// Clone returns a deep copy so callers can mutate without tearing a shared
// snapshot.
func (c *WatchConfig) Clone() *WatchConfig {
	users := make([]string, len(c.Users))
	copy(users, c.Users)
	return &WatchConfig{
		Channel: c.Channel,
		Users:   users,
	}
}
