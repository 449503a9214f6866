package memory

import "go.mongodb.org/mongo-driver/bson/primitive"

// moveToFront returns history with id first, any earlier occurrence removed and
// the result truncated to limit entries. history is not modified.
func moveToFront(history []primitive.ObjectID, id primitive.ObjectID, limit int) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(history)+1)
	out = append(out, id)
	for _, h := range history {
		if h != id {
			out = append(out, h)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
