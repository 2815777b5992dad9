package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Text     string `validate:"notblank"`
	Slug     string `validate:"slug"`
	Username string `validate:"username,max=150"`
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(form{Text: "hi", Slug: "cats-1", Username: "leo.t@x"}))

	err := v.Struct(form{Text: "   ", Slug: "Cats!", Username: "bad name"})
	require.Error(t, err)
	msgs := Messages(err)
	assert.Equal(t, "this field is required", msgs["text"])
	assert.Contains(t, msgs["slug"], "slug")
	assert.Contains(t, msgs["username"], "username")
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidSlug("test-slug"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Upper"))

	assert.True(t, ValidUsername("Author"))
	assert.False(t, ValidUsername("with space"))

	assert.False(t, NotBlank("\n\t "))
}

func TestMessagesNonValidationError(t *testing.T) {
	msgs := Messages(errors.New("EOF"))
	assert.Equal(t, "EOF", msgs["non_field_errors"])
}

func TestRegisterGin(t *testing.T) {
	assert.NoError(t, RegisterGin())
}
