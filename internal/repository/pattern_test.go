package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	require.Equal(t, "%beach%", containsPattern("beach"))
	require.Equal(t, `%100\% fun%`, containsPattern("100% fun"))
	require.Equal(t, `%a\_b%`, containsPattern("a_b"))
	require.Equal(t, `%c:\\d%`, containsPattern(`c:\d`))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, isUniqueViolation(err))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(errors.New("boom")))
}
