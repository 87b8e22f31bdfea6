package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	gateway "github.com/nimasrn/banking-gateway/internal/gateways"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Deliver(ctx context.Context, req *gateway.AlertRequest) (*gateway.AlertResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.AlertResponse), args.Error(1)
}

func TestGatewaySink_Send(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	alert := Alert{EventID: "evt-9", AccountID: 7, Kind: "CREDIT", Text: "Account 7 credited with 5.00", OccurredAt: at}

	t.Run("forwards the alert", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("Deliver", mock.Anything, mock.MatchedBy(func(r *gateway.AlertRequest) bool {
			return r.EventID == "evt-9" && r.AccountID == 7 && r.Kind == "CREDIT" && r.OccurredAt.Equal(at)
		})).Return(&gateway.AlertResponse{EventID: "evt-9", Accepted: true, Provider: "webhook-1"}, nil)

		require.NoError(t, NewGatewaySink(d).Send(context.Background(), alert))
		d.AssertExpectations(t)
	})

	t.Run("propagates delivery failure", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("Deliver", mock.Anything, mock.Anything).Return(nil, gateway.ErrNoAvailableProviders)

		err := NewGatewaySink(d).Send(context.Background(), alert)
		assert.True(t, errors.Is(err, gateway.ErrNoAvailableProviders))
	})
}
