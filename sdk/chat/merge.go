package chat

// Merge appends the incoming messages whose ID is not already present.
// The caller's own message can come back on the next poll, so duplicates are
// expected. It returns the merged list and the messages that were added.
func Merge(existing, incoming []Message) (merged []Message, added []Message) {
	seen := make(map[uint]struct{}, len(existing)+len(incoming))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}

	merged = append(make([]Message, 0, len(existing)+len(incoming)), existing...)
	for _, m := range incoming {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
		added = append(added, m)
	}
	return merged, added
}

// maxID returns the highest message ID, or floor when none is higher.
func maxID(floor uint, msgs []Message) uint {
	for _, m := range msgs {
		if m.ID > floor {
			floor = m.ID
		}
	}
	return floor
}
