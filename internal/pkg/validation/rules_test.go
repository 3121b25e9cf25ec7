package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("student@proske.app"))
	assert.True(t, ValidEmail("a.b+c@sub.domain.io"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
}

func TestValidInviteCode(t *testing.T) {
	assert.True(t, ValidInviteCode("ABCD1234WXYZ"))
	assert.False(t, ValidInviteCode("abcd1234wxyz"))
	assert.False(t, ValidInviteCode("SHORT"))
	assert.False(t, ValidInviteCode("ABCD1234WXYZ0"))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("longenough"))
	assert.False(t, ValidPassword("short"))
}
