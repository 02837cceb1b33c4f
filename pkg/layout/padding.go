package layout

// Align pads every branch to the longest unpadded length among them.
// Branches of equal length get no padding. Padding goes to each branch's
// downstream end; drop zone padding is hidden but still reserves space.
// Align is idempotent: it measures branches without their current padding.
func Align(branches ...*Branch) {
	alignTo(0, branches...)
}

// alignTo is Align with a lower bound on the common length.
func alignTo(floor int, branches ...*Branch) {
	target := floor
	for _, b := range branches {
		target = max(target, b.BaseLength())
	}
	for _, b := range branches {
		b.SetPadding(target - b.BaseLength())
	}
}
