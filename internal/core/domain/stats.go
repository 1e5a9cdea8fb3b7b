package domain

type UserAverage struct {
	UserID          int
	AverageDuration *float64
}

type Totals struct {
	TotalUsers             int
	OverallAverageDuration float64
	PerUserAverages        []UserAverage
}

// NewTotals divides the sum of the per-user averages by the number of
// registered users, including users with no completed items. Users whose
// completed items carry no duration contribute nothing to the sum.
func NewTotals(totalUsers int, perUser []UserAverage) Totals {
	if perUser == nil {
		perUser = []UserAverage{}
	}

	totals := Totals{
		TotalUsers:      totalUsers,
		PerUserAverages: perUser,
	}

	if totalUsers <= 0 {
		return totals
	}

	var sum float64

	for _, avg := range perUser {
		if avg.AverageDuration != nil {
			sum += *avg.AverageDuration
		}
	}

	totals.OverallAverageDuration = sum / float64(totalUsers)

	return totals
}

// AveragePerOwner is items per distinct owner, 0 when nobody owns an item.
func AveragePerOwner(items, owners int) float64 {
	if owners <= 0 {
		return 0
	}

	return float64(items) / float64(owners)
}
