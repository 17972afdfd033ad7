package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

func TestMetricUnifier(t *testing.T) {
	u := domain.NewUnifier(10000)

	assert.Equal(t, int64(1000002), u.ToScaled(100.00019))
	assert.Equal(t, int64(-12500), u.ToScaled(-1.25))
	assert.Equal(t, 2.5, u.FromScaled(25000))
	assert.Equal(t, 10000, u.ScaleFactor())

	assert.Equal(t, 1, domain.NewUnifier(0).ScaleFactor())
}

func TestMetricUnifier_Render(t *testing.T) {
	display, scaled := domain.NewUnifier(100).Render(domain.OfNumber(2.5))
	assert.Equal(t, 2.5, display)
	assert.Equal(t, int64(250), scaled)
}
