package domain

import "time"

// GroupStatus represents the lifecycle state of a gift-exchange group.
type GroupStatus string

const (
	// GroupStatusOpen means the group accepts joins and rule changes.
	GroupStatusOpen GroupStatus = "open"
	// GroupStatusDrawn means assignments exist and membership is frozen.
	GroupStatusDrawn GroupStatus = "drawn"
)

// Participant is a member of a gift-exchange group.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Wishlist []string  `json:"wishlist,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// Exclusion forbids two participants from being paired as giver and
// recipient in either direction. A and B are participant IDs and always
// differ; the pair is unordered.
type Exclusion struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Group is a gift-exchange group with its members, rules and, once drawn,
// the giver-to-recipient assignments.
type Group struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	JoinCode     string            `json:"join_code"`
	Status       GroupStatus       `json:"status"`
	Budget       string            `json:"budget,omitempty"`
	Participants []Participant     `json:"participants"`
	Exclusions   []Exclusion       `json:"exclusions,omitempty"`
	Assignments  map[string]string `json:"assignments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	DrawnAt      *time.Time        `json:"drawn_at,omitempty"`
}

// ParticipantByID returns the participant with the given ID, or nil.
func (g *Group) ParticipantByID(id string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].ID == id {
			return &g.Participants[i]
		}
	}

	return nil
}

// ParticipantByEmail returns the participant with the given email, or nil.
func (g *Group) ParticipantByEmail(email string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].Email == email {
			return &g.Participants[i]
		}
	}

	return nil
}

// ParticipantIDs returns the IDs of all participants in join order.
func (g *Group) ParticipantIDs() []string {
	ids := make([]string, len(g.Participants))
	for i, p := range g.Participants {
		ids[i] = p.ID
	}

	return ids
}

// HasExclusion reports whether the unordered pair (a, b) is already a rule.
func (g *Group) HasExclusion(a, b string) bool {
	for _, e := range g.Exclusions {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return true
		}
	}

	return false
}
