package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("apply job: %w", AlreadyExists("already applied"))

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindAlreadyExists, KindOf(err))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := GatewayUnavailable("paypal token", cause)

	assert.Equal(t, "paypal token: dial tcp: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, "NotFound", KindNotFound.String())
}
