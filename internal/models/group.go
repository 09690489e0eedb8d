package models

// Group represents a set of members who split expenses with each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip to Lisbon").
	Name string

	// Members is the ordered list of group members. Order is insertion order
	// and is used to break ties deterministically in calculations.
	Members []Member

	// Expenses is the ordered list of expenses, oldest first.
	// Expenses are append-only; there is no amend operation.
	Expenses []Expense

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member represents one participant of a group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name of the member.
	Name string

	// Email is the member's contact address. Optional.
	Email string
}

// MemberIndex returns a map from member ID to the member's position in Members.
func (g *Group) MemberIndex() map[string]int {
	index := make(map[string]int, len(g.Members))
	for i, m := range g.Members {
		index[m.ID] = i
	}
	return index
}

// HasMember reports whether memberID belongs to the group.
func (g *Group) HasMember(memberID string) bool {
	for _, m := range g.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

// FindMember returns the member with the given ID.
func (g *Group) FindMember(memberID string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == memberID {
			return m, true
		}
	}
	return Member{}, false
}

// FindExpense returns the expense with the given ID.
func (g *Group) FindExpense(expenseID string) (Expense, bool) {
	for _, e := range g.Expenses {
		if e.ID == expenseID {
			return e, true
		}
	}
	return Expense{}, false
}
