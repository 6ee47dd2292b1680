package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func newRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddCarrier(catalog.Carrier{
		ID:            "CR-UPS",
		Name:          "UPS",
		Code:          "UPS",
		Email:         "pickup@ups.example",
		ServiceLevels: map[string]decimal.Decimal{"GROUND": decimal.RequireFromString("8.50")},
	}))
	require.NoError(t, reg.AddSupplier(catalog.Supplier{
		ID:     "SUP-01",
		Name:   "TechDistro",
		Rating: 4.5,
		Active: true,
	}))
	return reg
}

func TestMailerManifestCreated(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer(sender, newRegistry(t), "wms@example.com", zap.NewNop())

	e := events.New(events.ManifestCreated, "MAN-0001", "CREATED", "2 packages").With("carrier_id", "CR-UPS")
	require.NoError(t, m.Record(context.Background(), e))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"pickup@ups.example"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Pickup manifest MAN-0001 ready for UPS"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "MAN-0001")
}

func TestMailerSkipsMissingAddressAndOtherEvents(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer(sender, newRegistry(t), "wms@example.com", zap.NewNop())

	po := events.New(events.PurchaseOrderCreated, "PO-0001", "CREATED", "").With("supplier_id", "SUP-01")
	require.NoError(t, m.Record(context.Background(), po))
	require.NoError(t, m.Record(context.Background(), events.New(events.InventoryAdjusted, "ITEM-001", "", "")))
	assert.Empty(t, sender.sent)
}

func TestMailerUnknownCarrier(t *testing.T) {
	m := NewMailer(&fakeSender{}, newRegistry(t), "wms@example.com", zap.NewNop())
	e := events.New(events.ManifestHandedOver, "MAN-0002", "HANDED_OVER", "").With("carrier_id", "CR-NONE")
	assert.Error(t, m.Record(context.Background(), e))
}

func TestMailerSendError(t *testing.T) {
	boom := errors.New("smtp down")
	m := NewMailer(&fakeSender{err: boom}, newRegistry(t), "wms@example.com", zap.NewNop())
	e := events.New(events.ManifestHandedOver, "MAN-0003", "HANDED_OVER", "").With("carrier_id", "CR-UPS")
	err := m.Record(context.Background(), e)
	assert.ErrorIs(t, err, boom)
}
