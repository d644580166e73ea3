package condition

// Walk visits c and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(c Condition, fn func(Condition) bool) {
	if c.IsZero() || !fn(c) {
		return
	}
	for _, child := range c.Children() {
		Walk(child, fn)
	}
}

// Fields returns the distinct field names referenced by the leaves of c in
// first-seen order.
func Fields(c Condition) []string {
	var fields []string
	seen := make(map[string]bool)
	Walk(c, func(n Condition) bool {
		if f := n.Field(); f != "" && !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
		return true
	})
	return fields
}
