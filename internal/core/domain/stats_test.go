package domain

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestNewTotals(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should be zero without users", func(t *testing.T) {
		totals := NewTotals(0, nil)

		Expect(totals.TotalUsers).To(Equal(0))
		Expect(totals.OverallAverageDuration).To(Equal(0.0))
		Expect(totals.PerUserAverages).To(BeEmpty())
		Expect(totals.PerUserAverages).NotTo(BeNil())
	})

	t.Run("should be zero when users have no completed items", func(t *testing.T) {
		totals := NewTotals(4, []UserAverage{})

		Expect(totals.OverallAverageDuration).To(Equal(0.0))
		Expect(totals.PerUserAverages).To(BeEmpty())
	})

	t.Run("should divide the sum of per-user means by every registered user", func(t *testing.T) {
		totals := NewTotals(3, []UserAverage{
			{UserID: 1, AverageDuration: floatPtr(10)},
			{UserID: 2, AverageDuration: floatPtr(30)},
		})

		Expect(totals.TotalUsers).To(Equal(3))
		Expect(totals.OverallAverageDuration).To(BeNumerically("~", 13.3333, 0.001))
		Expect(totals.PerUserAverages).To(HaveLen(2))
	})

	t.Run("should skip users whose average is null", func(t *testing.T) {
		totals := NewTotals(2, []UserAverage{
			{UserID: 1, AverageDuration: floatPtr(8)},
			{UserID: 2, AverageDuration: nil},
		})

		Expect(totals.OverallAverageDuration).To(Equal(4.0))
		Expect(totals.PerUserAverages).To(HaveLen(2))
	})
}

func TestAveragePerOwner(t *testing.T) {
	assert.Equal(t, 0.0, AveragePerOwner(0, 0))
	assert.Equal(t, 0.0, AveragePerOwner(5, 0))
	assert.Equal(t, 2.5, AveragePerOwner(5, 2))
}
