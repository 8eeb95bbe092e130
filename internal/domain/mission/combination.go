package mission

const (
	ComboSize = 6
	MinNumber = 1
	MaxNumber = 45
)

// Combination is one lottery pick: six distinct numbers in [1,45]. Order is not significant.
type Combination []int

// Valid reports whether c has exactly six distinct numbers within range.
func (c Combination) Valid() bool {
	if len(c) != ComboSize {
		return false
	}
	seen := make(map[int]struct{}, ComboSize)
	for _, n := range c {
		if n < MinNumber || n > MaxNumber {
			return false
		}
		if _, dup := seen[n]; dup {
			return false
		}
		seen[n] = struct{}{}
	}
	return true
}
