package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co.jp"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 65)+"@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Passw0rd"))
	assert.NoError(t, ValidatePassword("correct-Horse-7"))

	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase"))
	assert.Error(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword(strings.Repeat("Aa1", 50)))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("山田 太郎"))
	assert.NoError(t, ValidateName("Taro Yamada"))

	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("<script>alert(1)</script>"))
	assert.Error(t, ValidateName(strings.Repeat("x", 101)))
}
