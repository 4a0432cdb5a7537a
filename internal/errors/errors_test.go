package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrap(ErrDecryptionFailed, "load credential")
	assert.EqualError(t, err, "load credential: decryption failed")
	assert.True(t, errors.Is(err, ErrDecryptionFailed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
}
