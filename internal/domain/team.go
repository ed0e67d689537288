package domain

type (
	TeamID   string
	TeamName string
)

// Team is the directory's view of a team: who owns it and who belongs to it.
// The coordinator never mutates a Team; ownership changes happen elsewhere
// and are picked up on the next lookup.
type Team struct {
	ID        TeamID   `json:"id"`
	Name      TeamName `json:"name"`
	OwnerID   UserID   `json:"ownerId"`
	MemberIDs []UserID `json:"memberIds"`
}

// Everyone returns the owner plus all members, deduplicated, owner first.
func (t Team) Everyone() []UserID {
	out := make([]UserID, 0, len(t.MemberIDs)+1)
	out = append(out, t.OwnerID)
	for _, id := range t.MemberIDs {
		if id != t.OwnerID {
			out = append(out, id)
		}
	}
	return out
}
