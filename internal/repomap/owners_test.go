package repomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnersContent(t *testing.T) {
	owners := parseOwnersContent(`# Platform ownership
*       @org/platform
/docs/  @alice @bob

# malformed lines below
@orphan-owner-without-pattern
pattern-without-owner
src/api/ @org/api-team
`)

	require.NotNil(t, owners)
	assert.Equal(t, []string{"@org/platform"}, owners["*"])
	assert.Equal(t, []string{"@alice", "@bob"}, owners["/docs/"])
	assert.Equal(t, []string{"@org/api-team"}, owners["src/api/"])

	_, found := owners["@orphan-owner-without-pattern"]
	assert.False(t, found)
	_, found = owners["pattern-without-owner"]
	assert.False(t, found)
	assert.Len(t, owners, 3)
}

func TestParseOwners_LocationOrder(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, ".github/CODEOWNERS", "* @from-github\n")
	writeFixture(t, root, "docs/CODEOWNERS", "* @from-docs\n")

	owners := parseOwners(root)
	require.NotNil(t, owners)
	assert.Equal(t, []string{"@from-github"}, owners["*"],
		".github/CODEOWNERS outranks docs/CODEOWNERS")

	writeFixture(t, root, "CODEOWNERS", "* @from-root\n")
	owners = parseOwners(root)
	assert.Equal(t, []string{"@from-root"}, owners["*"])
}

func TestParseOwners_MissingFile(t *testing.T) {
	assert.Nil(t, parseOwners(t.TempDir()))
}
