package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

func TestQuarantineReading_Transition(t *testing.T) {
	q := domain.QuarantineReading{ID: "q1", Status: domain.QuarantineStatusPending}

	assert.ErrorIs(t, q.Transition(domain.QuarantineStatusPending), domain.ErrInvalidArgument)
	require.NoError(t, q.Transition(domain.QuarantineStatusIgnored))
	assert.Equal(t, domain.QuarantineStatusIgnored, q.Status)

	assert.ErrorIs(t, q.Transition(domain.QuarantineStatusResolved), domain.ErrInvalidArgument)
}
