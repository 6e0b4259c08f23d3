package adapter

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/stacks"
)

func TestGenericTreasuryBaseline(t *testing.T) {
	reader := newFakeReader()
	reader.balance = "500000000"
	g := NewGenericAdapter(reader)

	treasury, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)

	assert.Equal(t, "My Awesome Dao", treasury.Name)
	assert.Equal(t, 500.0, treasury.StxBalance)
	assert.Equal(t, int64(500000000), treasury.MicroStxBalance)
	assert.Equal(t, int64(150000), treasury.LastUpdatedBlock)
	assert.Empty(t, treasury.Source)
	assert.Equal(t, TreasuryFunctions, reader.calls)
}

func TestGenericTreasuryProbeOverrides(t *testing.T) {
	reader := newFakeReader().
		returns("get-balance", clarity.ResponseOk{Inner: clarity.NewUInt(0)}).
		returns("get-treasury", clarity.ResponseOk{Inner: clarity.NewUInt(750000000)}).
		returns("get-stx-balance", clarity.NewUInt(1))
	reader.balance = "500000000"
	g := NewGenericAdapter(reader)

	treasury, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)

	assert.Equal(t, 750.0, treasury.StxBalance)
	assert.Equal(t, "get-treasury", treasury.Source)
	assert.Equal(t, []string{"get-balance", "get-treasury"}, reader.calls)
}

func TestGenericTreasuryIgnoresUnusableProbes(t *testing.T) {
	reader := newFakeReader().
		returns("get-balance", clarity.StringASCII("lots")).
		returns("get-treasury", clarity.NewInt(-5)).
		returns("get-treasury-balance", clarity.OptionalNone{})
	reader.balance = "1250000"
	g := NewGenericAdapter(reader)

	treasury, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, 1.25, treasury.StxBalance)
	assert.Empty(t, treasury.Source)
}

func TestGenericTreasuryFungibleTokens(t *testing.T) {
	reader := newFakeReader()
	reader.tokens = map[string]stacks.TokenBalance{
		"SP000000000000000000002Q6VF78.zeta::zeta": {Balance: "9"},
		"SP000000000000000000002Q6VF78.gov::gov":   {Balance: "42"},
	}
	g := NewGenericAdapter(reader)

	treasury, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)

	want := []domain.FungibleToken{
		{AssetID: "SP000000000000000000002Q6VF78.gov::gov", Balance: "42", Symbol: "gov"},
		{AssetID: "SP000000000000000000002Q6VF78.zeta::zeta", Balance: "9", Symbol: "zeta"},
	}
	if diff := cmp.Diff(want, treasury.FungibleTokens); diff != "" {
		t.Errorf("fungible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestGenericTreasuryBaselineFailure(t *testing.T) {
	t.Run("balance", func(t *testing.T) {
		reader := newFakeReader()
		reader.balanceErr = domain.ErrNetworkUnreachable
		g := NewGenericAdapter(reader)

		treasury, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
		assert.Nil(t, treasury)

		var fetchErr *domain.TreasuryFetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, testAddress, fetchErr.Address)
		assert.ErrorIs(t, err, domain.ErrNetworkUnreachable)
		assert.Empty(t, reader.calls)
	})

	t.Run("height", func(t *testing.T) {
		reader := newFakeReader()
		reader.heightErr = domain.ErrContractNotFound
		g := NewGenericAdapter(reader)

		_, err := g.GetTreasury(context.Background(), testAddress, domain.NetworkMainnet)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})
}

func scenarioReader() *fakeReader {
	return newFakeReader().
		returns("get-proposal-count", clarity.NewUInt(3)).
		byIndex("get-proposal", map[int64]clarity.Value{
			0: clarity.OptionalSome{Inner: clarity.Tuple{
				"title":  clarity.StringASCII("Upgrade"),
				"status": clarity.StringASCII("passed"),
			}},
			2: clarity.Bool(true),
		}).
		byIndex("get-proposal-by-id", nil).
		byIndex("proposal", nil)
}

func TestGenericProposalsScenario(t *testing.T) {
	reader := scenarioReader()
	g := NewGenericAdapter(reader)

	proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)

	want := []domain.Proposal{
		{ID: "0", Title: "Upgrade", Status: domain.ProposalPassed, DaoContractAddress: testAddress},
		{ID: "2", Title: "Proposal 2", Status: domain.ProposalActive, DaoContractAddress: testAddress},
	}
	if diff := cmp.Diff(want, proposals); diff != "" {
		t.Errorf("proposals mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []int64{1}, reader.indexCalls["get-proposal-by-id"])
	assert.Equal(t, []int64{1}, reader.indexCalls["proposal"])
}

func TestGenericProposalsFieldFallbacks(t *testing.T) {
	reader := newFakeReader().
		returns("proposal-count", clarity.StringASCII("2")).
		byIndex("proposal", map[int64]clarity.Value{
			0: clarity.Tuple{"name": clarity.StringUTF8("Fund grants"), "state": clarity.NewUInt(2)},
			1: clarity.Tuple{"title": clarity.StringASCII(""), "description": clarity.StringASCII("Raise fees")},
		})
	g := NewGenericAdapter(reader)

	proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	assert.Equal(t, "Fund grants", proposals[0].Title)
	assert.Equal(t, domain.ProposalRejected, proposals[0].Status)
	assert.Equal(t, "Raise fees", proposals[1].Title)
	assert.Equal(t, domain.ProposalActive, proposals[1].Status)
}

func TestGenericProposalsStatusSkipsEmptyField(t *testing.T) {
	reader := newFakeReader().
		returns("get-proposal-count", clarity.NewUInt(2)).
		byIndex("get-proposal", map[int64]clarity.Value{
			0: clarity.Tuple{"status": clarity.OptionalNone{}, "state": clarity.StringASCII("passed")},
			1: clarity.Tuple{"status": clarity.StringUTF8(""), "state": clarity.StringASCII("rejected")},
		})
	g := NewGenericAdapter(reader)

	proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	assert.Equal(t, domain.ProposalPassed, proposals[0].Status)
	assert.Equal(t, domain.ProposalRejected, proposals[1].Status)
}

func TestGenericProposalsCountProbing(t *testing.T) {
	t.Run("uncoercible count tries next", func(t *testing.T) {
		reader := newFakeReader().
			returns("get-proposal-count", clarity.StringASCII("many")).
			returns("get-proposals-count", clarity.NewUInt(1)).
			byIndex("get-proposal", map[int64]clarity.Value{0: clarity.NewUInt(1)})
		g := NewGenericAdapter(reader)

		proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.Len(t, proposals, 1)
	})

	t.Run("no count function", func(t *testing.T) {
		reader := newFakeReader()
		g := NewGenericAdapter(reader)

		proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.NotNil(t, proposals)
		assert.Empty(t, proposals)
		assert.Equal(t, ProposalCountFunctions, reader.calls)
	})

	t.Run("negative count", func(t *testing.T) {
		reader := newFakeReader().returns("get-proposal-count", clarity.NewInt(-3))
		g := NewGenericAdapter(reader)

		proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.Empty(t, proposals)
		assert.Len(t, reader.calls, 1)
	})
}

func TestGenericProposalsClamp(t *testing.T) {
	for _, concurrency := range []int{1, 8} {
		reader := newFakeReader().
			returns("get-proposal-count", clarity.NewUInt(1000)).
			returns("get-proposal", clarity.Tuple{"title": clarity.StringASCII("x")})
		g := NewGenericAdapter(reader, WithConcurrency(concurrency))

		proposals, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.Len(t, proposals, MaxProposals)

		queried := reader.indexCalls["get-proposal"]
		assert.Len(t, queried, MaxProposals)
		for _, i := range queried {
			assert.Less(t, i, int64(MaxProposals))
		}
	}
}

func TestGenericProposalsIdempotent(t *testing.T) {
	values := map[int64]clarity.Value{}
	for i := int64(0); i < 20; i += 2 {
		values[i] = clarity.Tuple{"title": clarity.StringASCII("p"), "status": clarity.NewUInt(uint64(i % 3))}
	}
	reader := newFakeReader().
		returns("get-proposal-count", clarity.NewUInt(20)).
		byIndex("get-proposal", values)
	g := NewGenericAdapter(reader, WithConcurrency(5))

	first, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)
	second, err := g.GetProposals(context.Background(), testAddress, domain.NetworkMainnet)
	require.NoError(t, err)

	require.Len(t, first, 10)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated listing differs (-first +second):\n%s", diff)
	}
	for i, p := range first {
		assert.Equal(t, strconv.Itoa(i*2), p.ID)
	}
}

func TestGenericProposalsMalformedAddress(t *testing.T) {
	for _, address := range []string{"invalid-address", testPrincipal, "SP123.dao"} {
		reader := newFakeReader()
		g := NewGenericAdapter(reader)

		proposals, err := g.GetProposals(context.Background(), address, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.Empty(t, proposals)
		assert.Zero(t, reader.callCount())
	}
}

func TestWithConcurrencyClamps(t *testing.T) {
	reader := newFakeReader()
	assert.Equal(t, 1, NewGenericAdapter(reader).concurrency)
	assert.Equal(t, 1, NewGenericAdapter(reader, WithConcurrency(0)).concurrency)
	assert.Equal(t, MaxConcurrency, NewGenericAdapter(reader, WithConcurrency(64)).concurrency)
}

func TestGenericProposalDetails(t *testing.T) {
	reader := newFakeReader().byIndex("get-proposal-details", map[int64]clarity.Value{
		7: clarity.ResponseOk{Inner: clarity.Tuple{
			"title":       clarity.StringUTF8("Treasury grant"),
			"description": clarity.StringUTF8("Fund the indexer"),
			"status":      clarity.Bool(true),
			"votes-for":   clarity.NewUInt(120),
			"no-votes":    clarity.NewUInt(30),
			"created-at":  clarity.NewUInt(99000),
			"proposer":    clarity.StandardPrincipal{Version: 22},
		}},
	})
	g := NewGenericAdapter(reader)

	t.Run("without dao context", func(t *testing.T) {
		details, err := g.GetProposalDetails(context.Background(), "7", domain.NetworkMainnet)
		assert.Nil(t, details)
		assert.ErrorIs(t, err, domain.ErrDetailsUnavailable)
	})

	t.Run("with dao context", func(t *testing.T) {
		details, err := g.GetProposalDetailsFor(context.Background(), testAddress, "7", domain.NetworkMainnet)
		require.NoError(t, err)
		require.NotNil(t, details)

		want := &domain.ProposalDetails{
			Proposal: domain.Proposal{
				ID:                 "7",
				Title:              "Treasury grant",
				Status:             domain.ProposalPassed,
				DaoContractAddress: testAddress,
			},
			Description:   "Fund the indexer",
			Votes:         domain.Votes{Yes: 120, No: 30},
			CreationBlock: 99000,
			Proposer:      "SP000000000000000000002Q6VF78",
		}
		if diff := cmp.Diff(want, details); diff != "" {
			t.Errorf("details mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown proposal", func(t *testing.T) {
		details, err := g.GetProposalDetailsFor(context.Background(), testAddress, "8", domain.NetworkMainnet)
		require.NoError(t, err)
		assert.Nil(t, details)
	})

	t.Run("non numeric id", func(t *testing.T) {
		_, err := g.GetProposalDetailsFor(context.Background(), testAddress, "abc", domain.NetworkMainnet)
		assert.ErrorIs(t, err, domain.ErrDetailsUnavailable)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := g.GetProposalDetailsFor(context.Background(), "nope", "1", domain.NetworkMainnet)
		assert.ErrorIs(t, err, domain.ErrInvalidAddressFormat)
	})
}
