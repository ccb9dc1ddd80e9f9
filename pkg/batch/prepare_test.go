package batch_test

import (
	"sync"
	"testing"

	"github.com/pg-sharding/pgbatch/pkg/batch"
	mockps "github.com/pg-sharding/pgbatch/pkg/mock/prepstatement"
	"github.com/pg-sharding/pgbatch/pkg/prepstatement"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type testConnector struct {
	cache prepstatement.Cache
}

func (c *testConnector) StatementCache() prepstatement.Cache { return c.cache }

func newTestConnector() *testConnector {
	return &testConnector{cache: prepstatement.NewStatementCache(1, 16)}
}

func TestExplicitPreparationFirstCallerParses(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")

	assert.True(cmd.RequestExplicitPreparation(conn))
	assert.True(cmd.PendingParse())
	assert.NotEmpty(cmd.StatementName())

	e := cmd.ResolvePreparation()
	assert.NotNil(e)
	assert.Equal(prepstatement.StateBeingPrepared, e.State())
}

func TestExplicitPreparationSharedEntrySingleParse(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	first := batch.NewCommand("SELECT $1")
	second := batch.NewCommand("SELECT $1")

	r1 := first.RequestExplicitPreparation(conn)
	r2 := second.RequestExplicitPreparation(conn)

	/* exactly one of them transmits the Parse */
	assert.True(r1)
	assert.False(r2)
	assert.Same(first.ResolvePreparation(), second.ResolvePreparation())
	assert.Equal(prepstatement.StateBeingPrepared, second.ResolvePreparation().State())
}

func TestExplicitPreparationIdempotentOnSameConnector(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")

	assert.True(cmd.RequestExplicitPreparation(conn))
	assert.False(cmd.RequestExplicitPreparation(conn))
	assert.True(cmd.PendingParse())
}

func TestAutomaticPreparationFollowsHeuristic(t *testing.T) {
	assert := assert.New(t)

	conn := &testConnector{cache: prepstatement.NewStatementCache(3, 16)}
	cmd := batch.NewCommand("SELECT $1")

	/* below the usage threshold: executes unprepared */
	assert.False(cmd.RequestAutomaticPreparation(conn))
	assert.False(cmd.RequestAutomaticPreparation(conn))
	assert.Nil(cmd.StatementName())

	assert.True(cmd.RequestAutomaticPreparation(conn))
	assert.True(cmd.PendingParse())
}

func TestAutomaticPreparationDeclined(t *testing.T) {
	assert := assert.New(t)
	ctrl := gomock.NewController(t)

	cache := mockps.NewMockCache(ctrl)
	cache.EXPECT().TryGetAutoPrepared(gomock.Any()).Return(nil)

	cmd := batch.NewCommand("SELECT $1")
	assert.False(cmd.RequestAutomaticPreparation(&testConnector{cache: cache}))
	assert.Nil(cmd.ResolvePreparation())
}

func TestAutomaticPreparationKeepsValidEntry(t *testing.T) {
	assert := assert.New(t)
	ctrl := gomock.NewController(t)

	cache := mockps.NewMockCache(ctrl)
	entry := prepstatement.NewEntry("__pgbatch_1", prepstatement.StatementIdentity{Query: "SELECT $1"})
	cache.EXPECT().TryGetAutoPrepared(gomock.Any()).Return(entry).Times(1)

	conn := &testConnector{cache: cache}
	cmd := batch.NewCommand("SELECT $1")

	assert.True(cmd.RequestAutomaticPreparation(conn))
	/* second request on the same connector never goes back to the cache */
	assert.True(cmd.RequestAutomaticPreparation(conn))
}

func TestUnpreparedEntrySelfClears(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")
	assert.True(cmd.RequestExplicitPreparation(conn))

	e := cmd.ResolvePreparation()
	assert.NotNil(e)

	e.Unprepare()
	assert.Nil(cmd.ResolvePreparation())
	/* stays cleared without touching the dead entry again */
	assert.Nil(cmd.ResolvePreparation())
	assert.Nil(cmd.StatementName())
}

func TestSetTextInvalidatesPreparation(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")
	assert.True(cmd.RequestExplicitPreparation(conn))
	assert.NotNil(cmd.ResolvePreparation())

	cmd.SetText("SELECT $1, $2")
	assert.Nil(cmd.ResolvePreparation())
	assert.False(cmd.PendingParse())
	assert.Nil(cmd.StatementName())
}

func TestConnectorChangeInvalidatesAffinity(t *testing.T) {
	assert := assert.New(t)

	connA := newTestConnector()
	connB := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")

	assert.True(cmd.RequestAutomaticPreparation(connA))
	entryA := cmd.ResolvePreparation()

	/* replaced connection: the old plan handle must not be reused */
	assert.True(cmd.RequestAutomaticPreparation(connB))
	assert.NotSame(entryA, cmd.ResolvePreparation())
}

func TestConcurrentExplicitPreparationSingleWinner(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	first := batch.NewCommand("SELECT $1")
	second := batch.NewCommand("SELECT $1")

	/* bind both to the shared entry, then roll the Parse back so the
	entry is NotPrepared again with two live holders */
	assert.True(first.RequestExplicitPreparation(conn))
	assert.False(second.RequestExplicitPreparation(conn))
	first.ParseSent()
	assert.NoError(first.ResolvePreparation().AbortPrepare())

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i, cmd := range []*batch.Command{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cmd.RequestExplicitPreparation(conn)
		}()
	}
	wg.Wait()

	assert.NotEqual(results[0], results[1])
	assert.Equal(prepstatement.StateBeingPrepared, first.ResolvePreparation().State())
}

func TestFailPreparationRollsBack(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	cmd := batch.NewCommand("SELECT $1")
	assert.True(cmd.RequestExplicitPreparation(conn))

	e := cmd.ResolvePreparation()
	assert.NoError(cmd.FailPreparation())
	assert.Equal(prepstatement.StateNotPrepared, e.State())
	assert.Nil(cmd.ResolvePreparation())

	/* the shared entry is retryable afterwards */
	assert.True(cmd.RequestExplicitPreparation(conn))
}

func TestRolledBackEntryLosesStatementName(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	first := batch.NewCommand("SELECT $1")
	second := batch.NewCommand("SELECT $1")

	assert.True(first.RequestExplicitPreparation(conn))
	assert.False(second.RequestExplicitPreparation(conn))
	first.ParseSent()

	assert.NoError(first.FailPreparation())

	/* the statement no longer exists on the server for any holder */
	assert.Equal(prepstatement.StateNotPrepared, second.ResolvePreparation().State())
	assert.Nil(second.StatementName())
	assert.False(second.PendingParse())

	/* re-preparing restores the name */
	assert.True(second.RequestExplicitPreparation(conn))
	assert.NotEmpty(second.StatementName())
}

func TestExplicitConnectorChangeClearsPendingParse(t *testing.T) {
	assert := assert.New(t)

	connA := newTestConnector()
	connB := newTestConnector()

	other := batch.NewCommand("SELECT $1")
	assert.True(other.RequestExplicitPreparation(connB))

	cmd := batch.NewCommand("SELECT $1")
	assert.True(cmd.RequestExplicitPreparation(connA))
	assert.True(cmd.PendingParse())

	/* connB's entry is already being prepared by another holder, so the
	Parse pending from connA must not leak onto the new connection */
	assert.False(cmd.RequestExplicitPreparation(connB))
	assert.False(cmd.PendingParse())
	assert.Same(other.ResolvePreparation(), cmd.ResolvePreparation())
}

func TestCompletePrepareVisibleToAllHolders(t *testing.T) {
	assert := assert.New(t)

	conn := newTestConnector()
	first := batch.NewCommand("SELECT $1")
	second := batch.NewCommand("SELECT $1")

	assert.True(first.RequestExplicitPreparation(conn))
	assert.False(second.RequestExplicitPreparation(conn))

	e := first.ResolvePreparation()
	epoch := e.Epoch()
	assert.NoError(e.CompletePrepare(&prepstatement.PreparedStatementDescriptor{NoData: true}))

	assert.Equal(prepstatement.StatePrepared, second.ResolvePreparation().State())
	assert.Greater(second.ResolvePreparation().Epoch(), epoch)
	assert.Equal([]byte(e.Name), second.StatementName())
}
