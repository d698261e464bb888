package reconcile

import (
	"errors"
	"testing"

	"ims-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifierFor(policies ...models.Policy) VerifyFunc {
	byNumber := make(map[string]models.Policy, len(policies))
	for _, p := range policies {
		byNumber[p.PolicyNumber] = p
	}
	return func(number string) (*models.Policy, error) {
		if p, ok := byNumber[number]; ok {
			return &p, nil
		}
		return nil, nil
	}
}

func TestDecorateResolvesOwnersAndSkipsDanglingReferences(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, PolicyNumber: "P1", Status: models.ClaimStatusPending},
		{ClaimID: 2, PolicyNumber: "GONE", Status: models.ClaimStatusPending},
	}
	verify := verifierFor(models.Policy{PolicyNumber: "P1", UserID: 42})

	res := Decorate(claims, verify)

	assert.Equal(t, map[uint]int{1: 42}, res.OwnerByClaim)
	_, ok := res.OwnerByClaim[2]
	assert.False(t, ok, "a claim with a dangling policy reference must stay unmapped")

	// the dangling claim is also invisible to owner aggregates
	assert.Equal(t, 1, UniqueAffectedUsers(nil, res.OwnerByClaim))
}

func TestDecorateDefaultsRemarksToEmpty(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, PolicyNumber: "P1", Remarks: "Approved by admin"},
		{ClaimID: 2, PolicyNumber: "P1"},
	}

	res := Decorate(claims, verifierFor(models.Policy{PolicyNumber: "P1", UserID: 5}))

	assert.Equal(t, "Approved by admin", res.RemarksByClaim[1])
	assert.Equal(t, "", res.RemarksByClaim[2])
}

func TestDecorateOneFailedLookupDoesNotAbortOthers(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, PolicyNumber: "BAD"},
		{ClaimID: 2, PolicyNumber: "P2"},
		{ClaimID: 3, PolicyNumber: "BAD"},
	}
	verify := func(number string) (*models.Policy, error) {
		if number == "BAD" {
			return nil, errors.New("lookup failed")
		}
		return &models.Policy{PolicyNumber: number, UserID: 9}, nil
	}

	res := Decorate(claims, verify)

	require.Equal(t, map[uint]int{2: 9}, res.OwnerByClaim)
}

func TestDecorateBatchesDistinctPolicyNumbers(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, PolicyNumber: "P1"},
		{ClaimID: 2, PolicyNumber: "P1"},
		{ClaimID: 3, PolicyNumber: "P1"},
	}
	calls := 0
	verify := func(number string) (*models.Policy, error) {
		calls++
		return &models.Policy{PolicyNumber: number, UserID: 3}, nil
	}

	res := Decorate(claims, verify)

	assert.Equal(t, 1, calls, "repeated policy numbers should resolve with one lookup")
	assert.Equal(t, map[uint]int{1: 3, 2: 3, 3: 3}, res.OwnerByClaim)
}

func TestPendingCount(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, Status: models.ClaimStatusPending},
		{ClaimID: 2, Status: models.ClaimStatusApproved},
		{ClaimID: 3, Status: models.ClaimStatusPending},
		{ClaimID: 4, Status: models.ClaimStatusRejected},
	}
	assert.Equal(t, 2, PendingCount(claims))
	assert.Equal(t, 0, PendingCount(nil))
}

func TestUniqueAffectedUsersUnionsPolicyAndClaimOwners(t *testing.T) {
	policies := []models.Policy{
		{PolicyID: 1, UserID: 1},
		{PolicyID: 2, UserID: 2},
		{PolicyID: 3, UserID: 1},
	}
	ownerByClaim := map[uint]int{10: 2, 11: 3}

	assert.Equal(t, 3, UniqueAffectedUsers(policies, ownerByClaim))
}

func TestClaimsForUser(t *testing.T) {
	claims := []models.Claim{
		{ClaimID: 1, PolicyNumber: "P1"},
		{ClaimID: 2, PolicyNumber: "P2"},
		{ClaimID: 3, PolicyNumber: "GONE"},
	}
	verify := verifierFor(
		models.Policy{PolicyNumber: "P1", UserID: 7},
		models.Policy{PolicyNumber: "P2", UserID: 8},
	)

	mine := ClaimsForUser(claims, 7, verify)

	require.Len(t, mine, 1)
	assert.Equal(t, uint(1), mine[0].ClaimID)
}
