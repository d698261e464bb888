// Package reconcile resolves claims back to their owning users. A claim only
// carries a policy number, so ownership has to be recomputed from the policy
// directory every time claims are loaded; the owner of a policy can change
// underneath an existing claim.
package reconcile

import "ims-backend/internal/models"

// VerifyFunc resolves a policy number to its policy, (nil, nil) when the
// number does not resolve.
type VerifyFunc func(policyNumber string) (*models.Policy, error)

type Result struct {
	// OwnerByClaim maps claim id to the resolved owning user id. Claims
	// whose policy number does not resolve are absent.
	OwnerByClaim map[uint]int
	// RemarksByClaim maps claim id to its current remarks, "" by default.
	RemarksByClaim map[uint]string
}

// Decorate resolves ownership for every claim. Lookups are batched per
// distinct policy number, but each claim still resolves independently: a
// number that fails to resolve (deleted policy, lookup error) leaves only
// its own claims unmapped and never aborts the pass.
func Decorate(claims []models.Claim, verify VerifyFunc) Result {
	res := Result{
		OwnerByClaim:   make(map[uint]int, len(claims)),
		RemarksByClaim: make(map[uint]string, len(claims)),
	}

	resolved := make(map[string]*models.Policy)
	seen := make(map[string]bool)

	for _, c := range claims {
		res.RemarksByClaim[c.ClaimID] = c.Remarks

		if seen[c.PolicyNumber] {
			continue
		}
		seen[c.PolicyNumber] = true

		p, err := verify(c.PolicyNumber)
		if err != nil || p == nil {
			continue
		}
		resolved[c.PolicyNumber] = p
	}

	for _, c := range claims {
		if p, ok := resolved[c.PolicyNumber]; ok {
			res.OwnerByClaim[c.ClaimID] = p.UserID
		}
	}

	return res
}

func PendingCount(claims []models.Claim) int {
	n := 0
	for _, c := range claims {
		if c.Status == models.ClaimStatusPending {
			n++
		}
	}
	return n
}

// UniqueAffectedUsers counts the distinct users touched by the given scope:
// the union of policy owners and resolved claim owners.
func UniqueAffectedUsers(policies []models.Policy, ownerByClaim map[uint]int) int {
	users := make(map[int]bool)
	for _, p := range policies {
		users[p.UserID] = true
	}
	for _, owner := range ownerByClaim {
		users[owner] = true
	}
	return len(users)
}

// ClaimsForUser filters claims down to those whose resolved owner is userID.
// Claims referencing a missing policy never match anyone.
func ClaimsForUser(claims []models.Claim, userID int, verify VerifyFunc) []models.Claim {
	res := Decorate(claims, verify)
	out := make([]models.Claim, 0, len(claims))
	for _, c := range claims {
		if owner, ok := res.OwnerByClaim[c.ClaimID]; ok && owner == userID {
			out = append(out, c)
		}
	}
	return out
}
