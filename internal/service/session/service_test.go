package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/service/order"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
)

func setup(t *testing.T, isAdmin bool) (*Service, *order.Service, string) {
	t.Helper()
	repos := kv.New(store.NewCodec(memory.New(), store.DefaultPrefix, kv.Schema(), logger.Nop()))
	orders := order.NewService(repos.Orders, repos.Seen, nil)
	sess := &model.Session{ID: "s1", UserID: "u1", Name: "Rahim", IsAdmin: isAdmin, Nav: navigation.Start(isAdmin)}
	require.NoError(t, repos.Sessions.Create(context.Background(), sess))
	return NewService(repos.Sessions, orders), orders, sess.ID
}

func TestNavigatePersists(t *testing.T) {
	ctx := context.Background()
	svc, _, sid := setup(t, false)

	v, err := svc.Navigate(ctx, sid, model.ViewSearch)
	require.NoError(t, err)
	assert.Equal(t, model.ViewSearch, v.View)

	v, err = svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, model.ViewSearch, v.View)
	assert.Equal(t, []model.View{model.ViewHome, model.ViewSearch}, v.NavState.History)

	v, err = svc.Back(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, v.View)
}

func TestNavigateErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, sid := setup(t, false)

	_, err := svc.Navigate(ctx, sid, model.ViewAdmin)
	assert.ErrorIs(t, err, navigation.ErrForbiddenView)
	_, err = svc.Navigate(ctx, "missing", model.ViewHome)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	v, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, []model.View{model.ViewHome}, v.NavState.History)
}

func TestOpeningOrderViewResetsUnread(t *testing.T) {
	ctx := context.Background()
	svc, orders, sid := setup(t, false)

	o, err := orders.PlaceOrder(ctx, model.PatientProfile{ID: "u1", Name: "Rahim"}, &model.PlaceOrderRequest{
		Medicines: "Napa", Quantity: "1", Address: "X", Phone: "017",
	})
	require.NoError(t, err)
	_, _, err = orders.SendMessage(ctx, o.ID, model.SenderAdmin, "", "confirmed")
	require.NoError(t, err)

	v, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, v.UnreadCount)

	v, err = svc.Navigate(ctx, sid, model.ViewOrder)
	require.NoError(t, err)
	assert.Equal(t, 0, v.UnreadCount)
}

func TestOrderNowAndPrescription(t *testing.T) {
	ctx := context.Background()
	svc, _, sid := setup(t, false)

	_, err := svc.Navigate(ctx, sid, model.ViewPriceList)
	require.NoError(t, err)
	v, err := svc.OrderNow(ctx, sid, "Seclo 20")
	require.NoError(t, err)
	assert.Equal(t, model.ViewOrder, v.View)
	assert.Equal(t, "Seclo 20", v.NavState.PrefillMedicine)

	v, err = svc.ShowPrescription(ctx, sid, model.Prescription{Diagnosis: "GERD"})
	require.NoError(t, err)
	assert.Equal(t, model.ViewPrescriptionResult, v.View)

	v, err = svc.Home(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, v.View)
	assert.Nil(t, v.NavState.Prescription)

	v, err = svc.Replay(ctx, sid, model.ViewHistory)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHistory, v.View)
	assert.Equal(t, []model.View{model.ViewHome}, v.NavState.History)
}

func TestAdminSession(t *testing.T) {
	ctx := context.Background()
	svc, _, sid := setup(t, true)

	v, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, model.ViewAdmin, v.View)
	assert.True(t, v.User.IsAdmin)
	assert.Equal(t, 0, v.UnreadCount)
}

func TestOwnMessageInOrderViewIsNotUnread(t *testing.T) {
	ctx := context.Background()
	svc, orders, sid := setup(t, false)

	_, err := svc.Navigate(ctx, sid, model.ViewOrder)
	require.NoError(t, err)
	o, err := orders.PlaceOrder(ctx, model.PatientProfile{ID: "u1", Name: "Rahim"}, &model.PlaceOrderRequest{
		Medicines: "Napa", Quantity: "1", Address: "X", Phone: "017",
	})
	require.NoError(t, err)
	_, delivered, err := orders.SendMessage(ctx, o.ID, model.SenderUser, "u1", "hello")
	require.NoError(t, err)
	require.True(t, delivered)

	v, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, model.ViewOrder, v.View)
	assert.Equal(t, 0, v.UnreadCount)

	v, err = svc.Home(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, v.UnreadCount)
}

func TestAdminReplyWhileOrderViewOpenIsRead(t *testing.T) {
	ctx := context.Background()
	svc, orders, sid := setup(t, false)

	o, err := orders.PlaceOrder(ctx, model.PatientProfile{ID: "u1", Name: "Rahim"}, &model.PlaceOrderRequest{
		Medicines: "Napa", Quantity: "1", Address: "X", Phone: "017",
	})
	require.NoError(t, err)
	_, err = svc.Navigate(ctx, sid, model.ViewOrder)
	require.NoError(t, err)
	_, _, err = orders.SendMessage(ctx, o.ID, model.SenderAdmin, "", "confirmed")
	require.NoError(t, err)

	v, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, v.UnreadCount)

	_, _, err = orders.SendMessage(ctx, o.ID, model.SenderAdmin, "", "shipped")
	require.NoError(t, err)
	v, err = svc.Home(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, v.UnreadCount)
}
