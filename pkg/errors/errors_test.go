package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/scorecard/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "course",
			ID:       "pebble-beach",
		}
		assert.Equal(t, "course with ID pebble-beach not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("session", "abc")
		wrapped := fmt.Errorf("loading scan: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("image", nil, "cannot be empty")
		assert.Equal(t, "validation failed for field image: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad request"}
		assert.Equal(t, "validation failed: bad request", err.Error())
	})
}

func TestCollaboratorError(t *testing.T) {
	base := errors.New("connection reset")
	err := pkgerrors.NewCollaboratorError("extractor", "extract", base)

	assert.Equal(t, "extractor extract failed: connection reset", err.Error())
	assert.True(t, pkgerrors.IsCollaboratorUnavailable(err))
	assert.ErrorIs(t, err, base)

	var target *pkgerrors.CollaboratorError
	require.True(t, errors.As(fmt.Errorf("scan: %w", err), &target))
	assert.Equal(t, "extract", target.Operation)

	withStatus := &pkgerrors.CollaboratorError{Collaborator: "extractor", Operation: "identify", StatusCode: 503, Message: "overloaded"}
	assert.Contains(t, withStatus.Error(), "status 503")
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))
	assert.NoError(t, pkgerrors.WrapResource("save", "round", "", nil))
	assert.NoError(t, pkgerrors.WrapParse("yaml", "f", nil))
	assert.NoError(t, pkgerrors.WrapCollaborator("extractor", "extract", nil))

	err := pkgerrors.WrapResource("save", "round", "r1", errors.New("disk full"))
	assert.Equal(t, "failed to save round r1: disk full", err.Error())

	err = pkgerrors.WrapParse("yaml", "courses.yaml", errors.New("bad indent"))
	assert.Equal(t, "parse error in yaml file courses.yaml: bad indent", err.Error())

	err = pkgerrors.WrapCollaborator("course_repository", "find", errors.New("locked"))
	assert.True(t, pkgerrors.IsCollaboratorUnavailable(err))
}

func TestConfigError(t *testing.T) {
	base := errors.New("missing key")
	err := pkgerrors.NewConfigError("gemini", "GOOGLE_API_KEY not set", base)
	assert.Equal(t, "configuration error in gemini: GOOGLE_API_KEY not set", err.Error())
	assert.ErrorIs(t, err, base)
}
