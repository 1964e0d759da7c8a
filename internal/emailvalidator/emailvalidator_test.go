package emailvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.False(t, IsValidEmail("userexample.com"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("user@mailinator.com"))
	assert.False(t, IsValidEmail(""))
}

func TestIsBusinessEmail(t *testing.T) {
	assert.True(t, IsBusinessEmail("bob@acmecorp.com"))
	assert.False(t, IsBusinessEmail("bob@gmail.com"))
	assert.False(t, IsBusinessEmail("john@yahoo.com"))
	assert.False(t, IsBusinessEmail("john@hotmail.com"))
}

func TestIsBusinessEmailRejectsDisposable(t *testing.T) {
	assert.False(t, IsBusinessEmail("bob@mailinator.com"))
}

func TestIsBusinessEmailIsCaseInsensitiveOnDomain(t *testing.T) {
	assert.False(t, IsBusinessEmail("bob@GMAIL.com"))
	assert.True(t, IsBusinessEmail("bob@AcmeCorp.com"))
}
