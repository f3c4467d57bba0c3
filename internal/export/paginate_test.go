package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPagesSinglePage(t *testing.T) {
	// Scaled height under one page: one page at offset zero.
	pages := PlanPages(1000, 1000) // 210mm tall
	require.Len(t, pages, 1)
	assert.Equal(t, 0.0, pages[0].OffsetMM)
}

func TestPlanPagesTallRaster(t *testing.T) {
	// 210px wide so scaled height equals rasterH in mm. 600mm spans
	// three pages: 295 + 295 + 10.
	pages := PlanPages(210, 600)
	require.Len(t, pages, 3)
	assert.Equal(t, 0.0, pages[0].OffsetMM)
	assert.InDelta(t, -295.0, pages[1].OffsetMM, 1e-9)
	assert.InDelta(t, -590.0, pages[2].OffsetMM, 1e-9)
}

func TestPlanPagesOffsetsArePageMultiples(t *testing.T) {
	// Each page shifts the image up by exactly one page height:
	// offset(k) == -k * PageHeightMM regardless of raster size.
	for _, h := range []int{300, 700, 1234, 2950} {
		pages := PlanPages(210, h)
		for k, p := range pages {
			assert.InDelta(t, -float64(k)*PageHeightMM, p.OffsetMM, 1e-9,
				"height %d page %d", h, k)
		}
	}
}

func TestPlanPagesExactMultiple(t *testing.T) {
	// A scaled height of exactly one page height still produces a
	// second (blank) page: the zero remainder counts as spillover.
	pages := PlanPages(210, 295)
	require.Len(t, pages, 2)
	assert.InDelta(t, -295.0, pages[1].OffsetMM, 1e-9)

	pages = PlanPages(210, 590)
	assert.Len(t, pages, 3)
}

func TestPlanPagesDegenerate(t *testing.T) {
	assert.Nil(t, PlanPages(0, 100))
	assert.Nil(t, PlanPages(100, 0))
	assert.Nil(t, PlanPages(-1, -1))
}

func TestScaledHeightMM(t *testing.T) {
	assert.InDelta(t, 600.0, ScaledHeightMM(210, 600), 1e-9)
	assert.InDelta(t, 105.0, ScaledHeightMM(420, 210), 1e-9)
	assert.Equal(t, 0.0, ScaledHeightMM(0, 100))
}
