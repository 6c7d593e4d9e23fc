package domain

import "fmt"

// GrantResource adds amount to the player's balance. No validation here;
// mechanics enforce positivity where it matters.
func GrantResource(p *Player, resourceID string, amount int) {
	if p.Resources == nil {
		p.Resources = make(map[string]int)
	}
	p.Resources[resourceID] += amount
}

// LoseResource removes up to amount, flooring at zero. Loss is never an error.
func LoseResource(p *Player, resourceID string, amount int) {
	if p.Resources == nil {
		p.Resources = make(map[string]int)
	}
	current := p.Resources[resourceID]
	next := current - amount
	if next < 0 {
		next = 0
	}
	p.Resources[resourceID] = next
}

// TransferError reports a failed two-party exchange, including how much the
// giver actually had.
type TransferError struct {
	Code      string
	Message   string
	Available int
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransferResource atomically debits from and credits to. This is the only
// resource-moving helper with hard validation: a two-party exchange must not
// silently succeed on insufficient funds.
func TransferResource(from, to *Player, resourceID string, amount int) *TransferError {
	available := from.Resources[resourceID]
	if amount <= 0 {
		return &TransferError{Code: CodeInvalidAmount, Message: "amount must be positive", Available: available}
	}
	if available < amount {
		return &TransferError{
			Code:      CodeInsufficientResources,
			Message:   fmt.Sprintf("insufficient %s", resourceID),
			Available: available,
		}
	}
	from.Resources[resourceID] = available - amount
	GrantResource(to, resourceID, amount)
	return nil
}
