// Package fileid derives deterministic document IDs for files ingested from disk.
package fileid

import (
	"path/filepath"

	"github.com/google/uuid"
)

// namespace scopes name-based UUIDs generated for hotel files.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hotelrag:file"))

// DocumentID returns a stable UUID for a file of one hotel. Re-indexing the
// same path for the same hotel replaces the document instead of duplicating it.
func DocumentID(hotelID, path string) string {
	name := hotelID + "\x00" + filepath.Clean(path)
	return uuid.NewSHA1(namespace, []byte(name)).String()
}
