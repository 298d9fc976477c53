package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Zero(t, HaversineMeters(37.5665, 126.9780, 37.5665, 126.9780))
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// 1 degree of latitude is ~111.2km everywhere.
		d := HaversineMeters(37.0, 127.0, 38.0, 127.0)
		assert.InDelta(t, 111195, d, 100)
	})

	t.Run("seoul city hall to gwanghwamun", func(t *testing.T) {
		d := HaversineMeters(37.5665, 126.9780, 37.5759, 126.9768)
		assert.InDelta(t, 1050, d, 60)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineMeters(37.5665, 126.9780, 35.1796, 129.0756)
		b := HaversineMeters(35.1796, 129.0756, 37.5665, 126.9780)
		assert.InDelta(t, a, b, 0.001)
	})
}
