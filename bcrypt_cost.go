//go:build !race

package workhive

func passwordHashCost() int {
	return 14
}
