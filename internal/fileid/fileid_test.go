package fileid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	id := DocumentID("hotel-1", "/docs/policy.pdf")
	assert.Equal(t, id, DocumentID("hotel-1", "/docs/./policy.pdf"), "equivalent paths should give the same ID")

	parsed, err := uuid.Parse(id)
	require.NoError(t, err, "ID is not a UUID")
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestDocumentID_Distinct(t *testing.T) {
	base := DocumentID("hotel-1", "/docs/policy.pdf")
	assert.NotEqual(t, base, DocumentID("hotel-2", "/docs/policy.pdf"), "different hotels should give different IDs")
	assert.NotEqual(t, base, DocumentID("hotel-1", "/docs/menu.pdf"), "different paths should give different IDs")
}
