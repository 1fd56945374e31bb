// internal/app/system/guild/errors.go
package guild

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// ErrNotFound marks lookups whose target does not exist on the platform
// (member left the guild, stale channel or role id). Callers distinguish it
// from transport and permission failures with errors.Is.
var ErrNotFound = errors.New("guild: not found")

// isNotFound reports whether err is a platform 404.
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
