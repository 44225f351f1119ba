package order

import (
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
)

// DefaultStatus is assigned to orders created without an explicit status.
const DefaultStatus = "pending"

// Order represents an order aggregate: the order row together with the lines it owns.
type Order struct {
	ID        int64                 `json:"id"`
	ClientID  int64                 `json:"client_id"`
	Status    string                `json:"status"`
	Version   int64                 `json:"version"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Client    *client.Client        `json:"client,omitempty"`
	Lines     []orderline.OrderLine `json:"products"`
}

// LineIDs returns ids of the lines attached to the order.
func (o *Order) LineIDs() []int64 {
	ids := make([]int64, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ID)
	}

	return ids
}

// HasLineInSection reports whether at least one line references a product of the section.
// Lines must be hydrated with their products.
func (o *Order) HasLineInSection(sectionID int64) bool {
	for _, l := range o.Lines {
		if l.Product != nil && l.Product.SectionID == sectionID {
			return true
		}
	}

	return false
}
