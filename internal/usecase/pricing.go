package usecase

// Loyalty point arithmetic. Points are redeemed in blocks of 1000 worth 5000
// each; every full 80000 of the final price earns 1500 points.
const (
	pointsRedeemStep  = 1000
	pointsRedeemValue = 5000
	pointsEarnPer     = 80000
	pointsEarnStep    = 1500
)

// MaxUsablePoints bounds redemption by the user's balance and by
// ceil(total/5000)*1000, so a discount can never exceed the total by more
// than one redemption block.
func MaxUsablePoints(userPoints int, total int64) int {
	bound := int((total+pointsRedeemValue-1)/pointsRedeemValue) * pointsRedeemStep
	if userPoints < bound {
		return userPoints
	}
	return bound
}

// PointsDiscount converts redeemed points to a price discount. Partial blocks
// are ignored.
func PointsDiscount(pointsToUse int) int64 {
	return int64(pointsToUse/pointsRedeemStep) * pointsRedeemValue
}

// FinalPrice clamps at zero.
func FinalPrice(total, discount int64) int64 {
	if discount >= total {
		return 0
	}
	return total - discount
}

// PointsEarned is computed from the price actually paid, not the list total.
func PointsEarned(finalPrice int64) int {
	return int(finalPrice/pointsEarnPer) * pointsEarnStep
}
