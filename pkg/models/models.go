package models

// Domain models matching the database schema in db/migrations.

// RequestStatus is the lifecycle state of a requisition.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusClaimed   RequestStatus = "claimed"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

// Request is one requisition work item. Material costs are frozen at
// create/edit time from the catalog; they are never re-derived from the
// current catalog on read.
type Request struct {
	ID            int64         `json:"id" db:"id"`
	RequesterID   int64         `json:"requester_id" db:"requester_id"`
	RequesterName string        `json:"requester_name" db:"requester_name"`
	CharacterName string        `json:"character_name" db:"character_name"`
	Category      string        `json:"category" db:"category"`
	ItemName      string        `json:"item_name" db:"item_name"`
	Quantity      int           `json:"quantity" db:"quantity"`
	MaterialCostA int64         `json:"material_cost_a" db:"material_cost_a"`
	MaterialCostB int64         `json:"material_cost_b" db:"material_cost_b"`
	Status        RequestStatus `json:"status" db:"status"`
	CrafterID     *int64        `json:"crafter_id,omitempty" db:"crafter_id"`
	CrafterName   *string       `json:"crafter_name,omitempty" db:"crafter_name"`
	CreatedAt     int64         `json:"created_at" db:"created_at"`
	ClaimedAt     *int64        `json:"claimed_at,omitempty" db:"claimed_at"`
	CompletedAt   *int64        `json:"completed_at,omitempty" db:"completed_at"`
}

// CommunitySettings is the sparse per-community routing row. A row is created
// on the first configuration write and never deleted.
type CommunitySettings struct {
	CommunityID            int64  `json:"community_id" db:"community_id"`
	CrafterRoleRef         *int64 `json:"crafter_role_ref,omitempty" db:"crafter_role_ref"`
	AnnouncementChannelRef *int64 `json:"announcement_channel_ref,omitempty" db:"announcement_channel_ref"`
	QueueChannelRef        *int64 `json:"queue_channel_ref,omitempty" db:"queue_channel_ref"`
	QueueMessageRef        *int64 `json:"queue_message_ref,omitempty" db:"queue_message_ref"`
	Updated                int64  `json:"updated" db:"updated"`
}

// UserProfile caches the last character name a user submitted so returning
// users can skip re-entering it.
type UserProfile struct {
	UserID        int64  `json:"user_id" db:"user_id"`
	CharacterName string `json:"character_name" db:"character_name"`
	Updated       int64  `json:"updated" db:"updated"`
}

// Operator is an authenticated gateway account (a chat front end process, not
// a chat user).
type Operator struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
}

// RequesterTotals aggregates completed requests per requester.
type RequesterTotals struct {
	RequesterID   int64  `json:"requester_id" db:"requester_id"`
	RequesterName string `json:"requester_name" db:"requester_name"`
	CharacterName string `json:"character_name" db:"character_name"`
	Requests      int64  `json:"requests" db:"requests"`
	TotalQuantity int64  `json:"total_quantity" db:"total_quantity"`
	TotalCostA    int64  `json:"total_cost_a" db:"total_cost_a"`
	TotalCostB    int64  `json:"total_cost_b" db:"total_cost_b"`
}

// CrafterTotals aggregates completed requests per crafter.
type CrafterTotals struct {
	CrafterID     int64  `json:"crafter_id" db:"crafter_id"`
	CrafterName   string `json:"crafter_name" db:"crafter_name"`
	Requests      int64  `json:"requests" db:"requests"`
	TotalQuantity int64  `json:"total_quantity" db:"total_quantity"`
	TotalCostA    int64  `json:"total_cost_a" db:"total_cost_a"`
	TotalCostB    int64  `json:"total_cost_b" db:"total_cost_b"`
}

// ItemTotals aggregates completed requests per catalog item.
type ItemTotals struct {
	Category      string `json:"category" db:"category"`
	ItemName      string `json:"item_name" db:"item_name"`
	Requests      int64  `json:"requests" db:"requests"`
	TotalQuantity int64  `json:"total_quantity" db:"total_quantity"`
	TotalCostA    int64  `json:"total_cost_a" db:"total_cost_a"`
	TotalCostB    int64  `json:"total_cost_b" db:"total_cost_b"`
}

// MaterialTotals sums both material costs over a set of completed requests.
type MaterialTotals struct {
	Requests      int64 `json:"requests" db:"requests"`
	TotalQuantity int64 `json:"total_quantity" db:"total_quantity"`
	TotalCostA    int64 `json:"total_cost_a" db:"total_cost_a"`
	TotalCostB    int64 `json:"total_cost_b" db:"total_cost_b"`
}
