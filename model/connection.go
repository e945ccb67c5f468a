package model

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is the single edge held for an unordered pair of users.
// PairLow/PairHigh are the pair's ids in ascending order; the unique
// index over them is what serializes concurrent requests from both
// sides. A rejected row stays in place and is flipped back to pending
// by a later request, so the pair never holds two edges.
//
// No soft delete here: revoking must free the pair slot in the unique
// index, so deletes are real.
type Connection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PairLow     uint   `gorm:"not null;uniqueIndex:idx_connection_pair,priority:1" json:"pair_low"`
	PairHigh    uint   `gorm:"not null;uniqueIndex:idx_connection_pair,priority:2" json:"pair_high"`
	RequesterID uint   `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint   `gorm:"not null;index" json:"addressee_id"`
	Status      string `gorm:"not null;default:pending" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Other returns the counterpart of the given user on this edge.
func (c *Connection) Other(userID uint) uint {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// Holds reports whether the given user is one of the edge's parties.
func (c *Connection) Holds(userID uint) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}
