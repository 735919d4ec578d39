package queue

import (
	"fmt"
	"strings"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// displayLimit caps how many entries the rendered artifact shows. Totals
// still cover every active request.
const displayLimit = 15

// Render builds the queue artifact text from active requests in oldest-first
// order. At most displayLimit entries are listed; the footer sums material
// costs across all of them.
func Render(requests []*models.Request, materialA, materialB string) string {
	var sb strings.Builder
	sb.WriteString("Requisitions Queue\n")

	if len(requests) == 0 {
		sb.WriteString("\nNo active requests.")
		return sb.String()
	}

	var totalA, totalB int64
	for _, req := range requests {
		totalA += req.MaterialCostA
		totalB += req.MaterialCostB
	}

	shown := requests
	if len(shown) > displayLimit {
		shown = shown[:displayLimit]
	}

	for _, req := range shown {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "#%d %s x%d", req.ID, req.ItemName, req.Quantity)
		if req.CrafterName != nil {
			fmt.Fprintf(&sb, " [claimed: %s]", *req.CrafterName)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "    %s | %s: %d | %s: %d\n", req.CharacterName, materialA, req.MaterialCostA, materialB, req.MaterialCostB)
	}

	if len(requests) > displayLimit {
		fmt.Fprintf(&sb, "\nShowing %d of %d active requests.", displayLimit, len(requests))
	}
	fmt.Fprintf(&sb, "\nTotal materials needed: %d %s, %d %s", totalA, materialA, totalB, materialB)

	return sb.String()
}
