package game

// ComboStep is the number of consecutive pickups per multiplier step.
const ComboStep = 3

// ComboMultiplier returns 1 + floor(count/3)*0.5.
func ComboMultiplier(count int) float64 {
	if count < 0 {
		count = 0
	}
	return 1 + float64(count/ComboStep)*0.5
}

// Combo tracks a streak of food pickups that decays after a quiet window.
type Combo struct {
	count     int
	timer     int
	decayTime int
}

// NewCombo returns an empty combo that decays after decayTime steps.
func NewCombo(decayTime int) *Combo {
	return &Combo{decayTime: decayTime}
}

// Increment extends the streak, restarts the decay window and returns the
// resulting multiplier.
func (c *Combo) Increment() float64 {
	c.count++
	c.timer = c.decayTime
	return c.Multiplier()
}

// Update runs one decay step. It reports true when this step ended a streak.
func (c *Combo) Update() (lost bool) {
	if c.timer <= 0 {
		return false
	}
	c.timer--
	if c.timer == 0 && c.count > 0 {
		c.count = 0
		return true
	}
	return false
}

// Count returns the current streak length.
func (c *Combo) Count() int {
	return c.count
}

// Timer returns the steps left before the streak decays.
func (c *Combo) Timer() int {
	return c.timer
}

// Multiplier returns the score multiplier for the current streak.
func (c *Combo) Multiplier() float64 {
	return ComboMultiplier(c.count)
}

