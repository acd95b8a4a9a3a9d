package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsEmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "  ")
	require.EqualError(t, err, "postgres DSN is empty")
}
