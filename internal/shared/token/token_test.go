package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	autherrors "github.com/shahadat-technovicinity/school-management-system/internal/auth/errors"
)

func TestGenerateAndParse(t *testing.T) {
	sub := Subject{UserID: "u-1", EmployeeID: "e-1", SchoolID: "s-1", Role: "ACCOUNTANT"}
	now := time.Now()

	t.Run("round trip", func(t *testing.T) {
		tok, err := Generate("secret", sub, TypeAccess, AccessTTL, now)
		assert.NoError(t, err)

		got, err := Parse("secret", tok, TypeAccess)
		assert.NoError(t, err)
		assert.Equal(t, sub, got)
	})

	t.Run("wrong type", func(t *testing.T) {
		tok, _ := Generate("secret", sub, TypeRefresh, RefreshTTL, now)

		_, err := Parse("secret", tok, TypeAccess)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, _ := Generate("secret", sub, TypeAccess, time.Minute, now.Add(-time.Hour))

		_, err := Parse("secret", tok, TypeAccess)
		assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
	})

	t.Run("bad signature", func(t *testing.T) {
		tok, _ := Generate("other", sub, TypeAccess, AccessTTL, now)

		_, err := Parse("secret", tok, TypeAccess)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("no school", func(t *testing.T) {
		tok, _ := Generate("secret", Subject{UserID: "u-1"}, TypeAccess, AccessTTL, now)

		_, err := Parse("secret", tok, TypeAccess)
		assert.ErrorIs(t, err, autherrors.ErrMissingSchool)
	})
}
