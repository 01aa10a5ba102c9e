package exchange_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kienminhkhai84-max/learngate/exchange"
	"github.com/kienminhkhai84-max/learngate/identity"
	"github.com/kienminhkhai84-max/learngate/identity/storefake"
	"github.com/kienminhkhai84-max/learngate/portal"
)

const (
	testEmail     = "a@x.com"
	testPassword  = "pw"
	testHarvested = "cookie123"
)

// stubVerifier scripts a verification outcome and counts invocations.
type stubVerifier struct {
	token string
	err   error
	calls int
}

func (v *stubVerifier) Verify(_ context.Context, _ identity.RecordMap, _, _ string) (string, error) {
	v.calls++
	if v.err != nil {
		return "", v.err
	}
	return v.token, nil
}

type testFixture struct {
	store    *storefake.FakeStore
	verifier *stubVerifier
	service  *exchange.Service
}

func setupTestFixture(t *testing.T, verifier *stubVerifier) *testFixture {
	t.Helper()

	store := storefake.NewFakeStore()
	service, err := exchange.NewService(store, verifier)
	require.NoError(t, err)

	return &testFixture{store: store, verifier: verifier, service: service}
}

func TestAttemptLoginMissingCredentials(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{token: testHarvested})

	for _, pair := range [][2]string{{"", testPassword}, {testEmail, ""}, {"", ""}} {
		_, err := f.service.AttemptLogin(context.Background(), pair[0], pair[1])
		require.ErrorIs(t, err, exchange.MissingCredentialsErr)
	}

	require.Zero(t, f.verifier.calls, "empty input must be rejected before the verifier runs")
	require.Zero(t, f.store.WriteCount)
}

func TestAttemptLoginSuccess(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{token: testHarvested})

	token, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testHarvested, token, "local session token is the harvested value one to one")

	records, err := f.store.Read()
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec, ok := records.FindByEmail(testEmail)
	require.True(t, ok)
	require.Equal(t, testHarvested, rec.SessionToken)
	require.False(t, rec.DeviceLinked)
	require.True(t, identity.CheckCredentialHash(testPassword, rec.CredentialHash))
}

// blockingVerifier parks Verify until released, so a test can hold one
// exchange mid-verification while another runs to completion.
type blockingVerifier struct {
	entered chan struct{}
	release chan struct{}
	token   string
}

func newBlockingVerifier(token string) *blockingVerifier {
	return &blockingVerifier{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		token:   token,
	}
}

func (v *blockingVerifier) Verify(_ context.Context, _ identity.RecordMap, _, _ string) (string, error) {
	close(v.entered)
	<-v.release
	return v.token, nil
}

func TestAttemptLoginSlowExchangeDoesNotDropConcurrentLogin(t *testing.T) {
	store := storefake.NewFakeStore()

	slow := newBlockingVerifier("slow-token")
	slowService, err := exchange.NewService(store, slow)
	require.NoError(t, err)

	slowDone := make(chan error, 1)
	go func() {
		_, loginErr := slowService.AttemptLogin(context.Background(), "slow@x.com", testPassword)
		slowDone <- loginErr
	}()
	<-slow.entered // slow exchange has taken its store snapshot and is verifying

	// A second login starts and commits in full while the first is
	// still driving the portal.
	fastService, err := exchange.NewService(store, &stubVerifier{token: "fast-token"})
	require.NoError(t, err)
	_, err = fastService.AttemptLogin(context.Background(), "fast@x.com", testPassword)
	require.NoError(t, err)

	close(slow.release)
	require.NoError(t, <-slowDone)

	records, err := store.Read()
	require.NoError(t, err)

	fast, ok := records.FindByEmail("fast@x.com")
	require.True(t, ok, "a committed login must survive a slower concurrent exchange")
	require.Equal(t, "fast-token", fast.SessionToken)

	slowRec, ok := records.FindByEmail("slow@x.com")
	require.True(t, ok)
	require.Equal(t, "slow-token", slowRec.SessionToken)
}

func TestAttemptLoginOverwritesPreviousToken(t *testing.T) {
	verifier := &stubVerifier{token: "first"}
	f := setupTestFixture(t, verifier)

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	verifier.token = "second"
	_, err = f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	records, err := f.store.Read()
	require.NoError(t, err)

	_, _, found := records.FindByToken("first")
	require.False(t, found, "issuing a new token invalidates the previous one")

	email, _, found := records.FindByToken("second")
	require.True(t, found)
	require.Equal(t, testEmail, email)
}

func TestAttemptLoginPreservesDeviceLink(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{token: testHarvested})
	f.store.Seed(testEmail, identity.Record{SessionToken: "old", DeviceLinked: true})

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	records, err := f.store.Read()
	require.NoError(t, err)
	rec, _ := records.FindByEmail(testEmail)
	require.True(t, rec.DeviceLinked, "an existing device link is never downgraded")
}

func TestAttemptLoginStageTimeoutLeavesStoreUntouched(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{
		err: &portal.StageTimeoutError{Stage: portal.StageAwaitPasswordField},
	})
	f.store.Seed(testEmail, identity.Record{SessionToken: "old"})

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, exchange.InvalidCredentialsErr)
	require.Zero(t, f.store.WriteCount, "failed exchanges must not mutate the store")

	records, readErr := f.store.Read()
	require.NoError(t, readErr)
	rec, _ := records.FindByEmail(testEmail)
	require.Equal(t, "old", rec.SessionToken)
}

func TestAttemptLoginCookieMissingIsInvalidCredentials(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{err: portal.SessionCookieMissingErr})

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, exchange.InvalidCredentialsErr)
	require.Zero(t, f.store.WriteCount)
}

func TestAttemptLoginDriverUnavailable(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{err: portal.DriverUnavailableErr})

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, exchange.ExchangeUnavailableErr)
	require.Zero(t, f.store.WriteCount)
}

func TestAttemptLoginCorruptStore(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{token: testHarvested})
	f.store.ReadErr = identity.CorruptStoreErr

	_, err := f.service.AttemptLogin(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, identity.CorruptStoreErr)
	require.Zero(t, f.verifier.calls, "no driver run against a corrupt store")
}

func TestAuthorizeSymmetry(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{})
	f.store.Seed(testEmail, identity.Record{SessionToken: "T"})

	email, err := f.service.Authorize("T")
	require.NoError(t, err)
	require.Equal(t, testEmail, email)

	_, err = f.service.Authorize("U")
	require.ErrorIs(t, err, exchange.InvalidSessionErr)

	_, err = f.service.Authorize("")
	require.ErrorIs(t, err, exchange.NotAuthenticatedErr)
}

func TestAuthorizeCorruptStoreIsNotInvalidSession(t *testing.T) {
	f := setupTestFixture(t, &stubVerifier{})
	f.store.ReadErr = identity.CorruptStoreErr

	_, err := f.service.Authorize("T")
	require.ErrorIs(t, err, identity.CorruptStoreErr)
	require.NotErrorIs(t, err, exchange.InvalidSessionErr)
}
