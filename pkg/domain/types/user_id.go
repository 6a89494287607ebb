package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// userIDPattern follows the AtCoder account naming rule: 3 to 16 characters
// of letters, digits and underscores.
var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)

// UserID represents an AtCoder account identifier
type UserID string

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(string(u)) {
		return goerr.New("user ID must be 3-16 alphanumeric or underscore characters", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
