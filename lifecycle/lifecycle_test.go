package lifecycle

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/apperrors"
	"eldato-web/models"
)

type fakeAPI struct {
	requests  []models.ServiceRequest
	listErr   error
	remoteErr error

	listCalls int
	completed []uint
	finalized map[uint]models.Settlement
	cancelled []uint
	created   []models.ServiceRequestCreate
}

func (f *fakeAPI) ListMyRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.ServiceRequest(nil), f.requests...), nil
}

func (f *fakeAPI) CreateRequest(ctx context.Context, clientID, providerID, serviceID uint, scheduledAt *time.Time) (uint, error) {
	f.created = append(f.created, models.ServiceRequestCreate{ProviderID: providerID, ServiceID: serviceID, ScheduledAt: scheduledAt})
	return 99, f.remoteErr
}

func (f *fakeAPI) MarkCompleted(ctx context.Context, id uint) error {
	if f.remoteErr != nil {
		return f.remoteErr
	}
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeAPI) Finalize(ctx context.Context, id uint, s models.Settlement) error {
	if f.remoteErr != nil {
		return f.remoteErr
	}
	if f.finalized == nil {
		f.finalized = map[uint]models.Settlement{}
	}
	f.finalized[id] = s
	return nil
}

func (f *fakeAPI) Cancel(ctx context.Context, id uint) error {
	if f.remoteErr != nil {
		return f.remoteErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type recordingNotifier struct {
	prompts map[uint]EvaluationPrompt
	updates map[uint]models.ServiceRequest
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{prompts: map[uint]EvaluationPrompt{}, updates: map[uint]models.ServiceRequest{}}
}

func (n *recordingNotifier) EvaluationPrompt(userID uint, p EvaluationPrompt) { n.prompts[userID] = p }
func (n *recordingNotifier) RequestUpdated(userID uint, r models.ServiceRequest) {
	n.updates[userID] = r
}

var (
	client   = models.Actor{UserID: 1, Role: models.RoleClient, Name: "Ana"}
	provider = models.Actor{UserID: 2, Role: models.RoleProvider, Name: "Luis"}
	admin    = models.Actor{UserID: 3, Role: models.RoleAdministrator}
)

func request(id uint, state models.RequestState) models.ServiceRequest {
	return models.ServiceRequest{
		ID: id, ClientID: client.UserID, ProviderID: provider.UserID, ServiceID: 30,
		ClientName: "Ana", ProviderName: "Luis", State: state,
	}
}

func price(v float64) *float64 { return &v }

func TestActions(t *testing.T) {
	tests := []struct {
		role  models.Role
		state models.RequestState
		want  []Action
	}{
		{models.RoleClient, models.RequestStateScheduled, []Action{ActionComplete, ActionCancel}},
		{models.RoleClient, models.RequestStateCompleted, []Action{ActionCancel}},
		{models.RoleProvider, models.RequestStateScheduled, []Action{ActionCancel}},
		{models.RoleProvider, models.RequestStateCompleted, []Action{ActionFinalize, ActionCancel}},
		{models.RoleProvider, models.RequestStateFinalized, []Action{}},
		{models.RoleClient, models.RequestStateCancelled, []Action{}},
		{models.RoleAdministrator, models.RequestStateScheduled, []Action{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, Actions(tt.role, tt.state))
		})
	}
}

func TestTransitionsAreMonotonic(t *testing.T) {
	forward := map[models.RequestState]int{
		models.RequestStateScheduled: 0,
		models.RequestStateCompleted: 1,
		models.RequestStateFinalized: 2,
	}
	rng := rand.New(rand.NewSource(42))
	actors := []models.Actor{client, provider, admin}
	actions := []Action{ActionComplete, ActionFinalize, ActionCancel}

	for run := 0; run < 500; run++ {
		req := request(uint(run+1), models.RequestStateScheduled)
		seen := []models.RequestState{req.State}

		for step := 0; step < 6; step++ {
			before := req.State
			next, err := Transition(req, actors[rng.Intn(len(actors))], actions[rng.Intn(len(actions))], time.Now())
			if err != nil {
				assert.Equal(t, before, next.State, "a refused transition keeps the state")
				continue
			}
			require.False(t, before.IsTerminal(), "no transition leaves %s", before)
			if next.State != models.RequestStateCancelled {
				assert.Equal(t, forward[before]+1, forward[next.State], "%s -> %s", before, next.State)
			}
			req = next
			seen = append(seen, req.State)
		}

		if last := seen[len(seen)-1]; last == models.RequestStateCancelled && len(seen) > 1 {
			assert.NotEqual(t, models.RequestStateFinalized, seen[len(seen)-2])
		}
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	req := request(1, models.RequestStateScheduled)

	next, err := Transition(req, client, ActionComplete, time.Now())

	require.NoError(t, err)
	assert.Equal(t, models.RequestStateScheduled, req.State)
	assert.Nil(t, req.CompletedAt)
	assert.Equal(t, models.RequestStateCompleted, next.State)
	assert.NotNil(t, next.CompletedAt)
}

func TestTransitionRequiresParticipant(t *testing.T) {
	stranger := models.Actor{UserID: 77, Role: models.RoleClient}

	_, err := Transition(request(1, models.RequestStateScheduled), stranger, ActionComplete, time.Now())

	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestFinalizeRequiresSettlementBeforeAnyCall(t *testing.T) {
	tests := map[string]models.Settlement{
		"missing price":        {PaymentMethod: "Efectivo"},
		"blank payment method": {AgreedPrice: price(15000), PaymentMethod: "   "},
		"non positive price":   {AgreedPrice: price(0), PaymentMethod: "Efectivo"},
		"missing both":         {},
	}

	for name, settlement := range tests {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{requests: []models.ServiceRequest{request(5, models.RequestStateCompleted)}}
			m := NewManager(api, nil)

			_, err := m.Finalize(context.Background(), provider, 5, settlement)

			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Contains(t, err.Error(), SettlementRequiredMessage)
			assert.Zero(t, api.listCalls)
			assert.Empty(t, api.finalized)
		})
	}
}

func TestFinalizeRecordsSettlementAndPrompts(t *testing.T) {
	api := &fakeAPI{requests: []models.ServiceRequest{request(5, models.RequestStateCompleted)}}
	notifier := newRecordingNotifier()
	m := NewManager(api, notifier)

	out, err := m.Finalize(context.Background(), provider, 5, models.Settlement{AgreedPrice: price(15000), PaymentMethod: " Efectivo ", Notes: " pagado "})

	require.NoError(t, err)
	assert.Equal(t, models.RequestStateFinalized, out.Request.State)
	require.NotNil(t, out.Request.Settlement)
	assert.Equal(t, "Efectivo", api.finalized[5].PaymentMethod)
	assert.Equal(t, "pagado", api.finalized[5].Notes)

	require.NotNil(t, out.Prompt)
	assert.Equal(t, client.UserID, out.Prompt.CounterpartID)
	assert.Equal(t, []string{"now", "later"}, out.Prompt.Choices)
	assert.Contains(t, notifier.prompts, provider.UserID)
	assert.Equal(t, models.RequestStateFinalized, notifier.updates[client.UserID].State)
}

func TestFinalizeOnlyFromCompleted(t *testing.T) {
	api := &fakeAPI{requests: []models.ServiceRequest{request(5, models.RequestStateScheduled)}}
	m := NewManager(api, nil)

	_, err := m.Finalize(context.Background(), provider, 5, models.Settlement{AgreedPrice: price(100), PaymentMethod: "Efectivo"})

	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Empty(t, api.finalized)
}

func TestCancelAfterFinalizeIsRejected(t *testing.T) {
	finalized := request(8, models.RequestStateFinalized)
	api := &fakeAPI{requests: []models.ServiceRequest{finalized}}
	m := NewManager(api, nil)

	for _, actor := range []models.Actor{client, provider} {
		_, err := m.Cancel(context.Background(), actor, 8)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), CancelFinalizedMessage)
	}
	assert.Empty(t, api.cancelled)

	got, err := m.Get(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStateFinalized, got.State)
}

func TestCancelByEitherParticipant(t *testing.T) {
	for _, actor := range []models.Actor{client, provider} {
		api := &fakeAPI{requests: []models.ServiceRequest{request(4, models.RequestStateCompleted)}}
		notifier := newRecordingNotifier()

		out, err := NewManager(api, notifier).Cancel(context.Background(), actor, 4)

		require.NoError(t, err)
		assert.Equal(t, models.RequestStateCancelled, out.Request.State)
		assert.Nil(t, out.Prompt)
		assert.Equal(t, []uint{4}, api.cancelled)
		assert.Empty(t, notifier.prompts)
	}
}

func TestCompleteOnlyByClient(t *testing.T) {
	api := &fakeAPI{requests: []models.ServiceRequest{request(3, models.RequestStateScheduled)}}
	m := NewManager(api, nil)

	_, err := m.Complete(context.Background(), provider, 3)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	out, err := m.Complete(context.Background(), client, 3)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStateCompleted, out.Request.State)
	assert.Equal(t, provider.UserID, out.Prompt.CounterpartID)
	assert.Equal(t, "Luis", out.Prompt.CounterpartName)
	assert.Equal(t, []uint{3}, api.completed)
}

func TestRemoteFailureIsReturnedUnchanged(t *testing.T) {
	remote := apperrors.Conflict("La solicitud no está agendada")
	api := &fakeAPI{requests: []models.ServiceRequest{request(3, models.RequestStateScheduled)}, remoteErr: remote}
	notifier := newRecordingNotifier()

	_, err := NewManager(api, notifier).Complete(context.Background(), client, 3)

	assert.Same(t, remote, err)
	assert.Empty(t, notifier.prompts)
	assert.Empty(t, notifier.updates)
}

func TestGetUnknownRequest(t *testing.T) {
	m := NewManager(&fakeAPI{}, nil)

	_, err := m.Get(context.Background(), 12)

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListSortsFiltersAndSummarizes(t *testing.T) {
	api := &fakeAPI{requests: []models.ServiceRequest{
		request(1, models.RequestStateScheduled),
		request(5, models.RequestStateFinalized),
		request(3, models.RequestStateScheduled),
	}}
	m := NewManager(api, nil)

	views, summary, err := m.List(context.Background(), client, "Agendado")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint(3), views[0].ID)
	assert.Equal(t, uint(1), views[1].ID)
	assert.Equal(t, []Action{ActionComplete, ActionCancel}, views[0].Actions)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Scheduled)
}

func TestListPropagatesFailure(t *testing.T) {
	m := NewManager(&fakeAPI{listErr: apperrors.Transient(errors.New("dial tcp"), "Could not load your requests")}, nil)

	views, _, err := m.List(context.Background(), client, "")

	assert.Nil(t, views)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
}

func TestSummarize(t *testing.T) {
	reqs := []models.ServiceRequest{
		request(1, models.RequestStateScheduled),
		request(2, models.RequestStateScheduled),
		request(3, models.RequestStateCompleted),
		request(4, models.RequestStateFinalized),
		request(5, models.RequestStateCancelled),
	}

	assert.Equal(t, models.RequestSummary{Total: 5, Scheduled: 2, Completed: 1, Finalized: 1}, Summarize(reqs))
}

func TestUnknownStateCountsOnlyInTotal(t *testing.T) {
	reqs := []models.ServiceRequest{
		request(1, models.RequestStateScheduled),
		request(2, models.RequestState("EnRevision")),
	}

	assert.Equal(t, models.RequestSummary{Total: 2, Scheduled: 1}, Summarize(reqs))
	assert.Empty(t, Actions(models.RoleClient, models.RequestState("EnRevision")))
	assert.Empty(t, Actions(models.RoleProvider, models.RequestState("EnRevision")))
}

func TestFilter(t *testing.T) {
	reqs := []models.ServiceRequest{
		request(1, models.RequestStateScheduled),
		request(2, models.RequestStateCancelled),
	}

	all, err := Filter(reqs, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled, err := Filter(reqs, "cancelado")
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, uint(2), cancelled[0].ID)

	_, err = Filter(reqs, "archivado")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Equal(t, models.RequestStateScheduled, reqs[0].State)
	assert.Len(t, reqs, 2)
}

func TestCreate(t *testing.T) {
	api := &fakeAPI{}
	m := NewManager(api, nil)

	_, err := m.Create(context.Background(), admin, models.ServiceRequestCreate{ProviderID: 2, ServiceID: 30})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	_, err = m.Create(context.Background(), provider, models.ServiceRequestCreate{ProviderID: provider.UserID, ServiceID: 30})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = m.Create(context.Background(), client, models.ServiceRequestCreate{ProviderID: 2})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	id, err := m.Create(context.Background(), client, models.ServiceRequestCreate{ProviderID: 2, ServiceID: 30})
	require.NoError(t, err)
	assert.Equal(t, uint(99), id)
	assert.Len(t, api.created, 1)
}
