package tui

// --- Messages emitted by a Select ---

// ChangeMsg is emitted once per committed selection change. Selection is the
// new value; controlled owners feed it back with SetValue.
type ChangeMsg[V comparable] struct {
	ID        string
	Selection Selection[V]
}

// SearchChangeMsg is emitted on every query change of a Select in async search
// mode. Seq increases with each query so owners can tag their results.
type SearchChangeMsg struct {
	ID    string
	Query string
	Seq   uint64
}

// BlurMsg is emitted when the user tabs out of an open Select. The host
// decides where focus goes next.
type BlurMsg struct {
	ID      string
	Reverse bool // shift+tab
}

// --- Messages consumed by a Select ---

// SearchResults carries the owner's answer to a SearchChangeMsg.
type SearchResults[V comparable] struct {
	ID      string
	Seq     uint64
	Options []Option[V]
}
