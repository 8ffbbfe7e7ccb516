package engineering

import (
	"time"

	"github.com/google/uuid"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// newID generates record ids. Replaced in tests that need stable ids.
var newID = func() string { return uuid.NewString() }

// now returns the current time formatted the way every record stores it.
func now() string {
	return timeNow().UTC().Format(time.RFC3339)
}
