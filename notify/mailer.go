package notify

import (
	"context"
	"fmt"
	"html"

	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/events"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Contacts interface {
	Carrier(id string) (catalog.Carrier, error)
	Supplier(id string) (catalog.Supplier, error)
}

// Mailer notifies carriers about manifests and suppliers about purchase
// orders. Other events are ignored.
type Mailer struct {
	sender   Sender
	contacts Contacts
	from     string
	log      *zap.Logger
}

func NewDialer(host string, port int, user, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, password)
}

func NewMailer(sender Sender, contacts Contacts, from string, log *zap.Logger) *Mailer {
	return &Mailer{sender: sender, contacts: contacts, from: from, log: log}
}

func (m *Mailer) Name() string { return "mail" }

func (m *Mailer) Record(_ context.Context, e events.Event) error {
	var to, subject string
	switch e.Type {
	case events.ManifestCreated, events.ManifestHandedOver:
		carrier, err := m.contacts.Carrier(e.Attributes["carrier_id"])
		if err != nil {
			return err
		}
		to = carrier.Email
		if e.Type == events.ManifestCreated {
			subject = fmt.Sprintf("Pickup manifest %s ready for %s", e.RefNo, carrier.Name)
		} else {
			subject = fmt.Sprintf("Manifest %s handed over", e.RefNo)
		}
	case events.PurchaseOrderCreated:
		supplier, err := m.contacts.Supplier(e.Attributes["supplier_id"])
		if err != nil {
			return err
		}
		to = supplier.Email
		subject = fmt.Sprintf("Purchase order %s", e.RefNo)
	default:
		return nil
	}

	if to == "" {
		m.log.Debug("no recipient address, skipping mail",
			zap.String("type", e.Type),
			zap.String("ref_no", e.RefNo))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body(e))

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s mail to %s: %w", e.Type, to, err)
	}
	m.log.Info("notification mail sent",
		zap.String("type", e.Type),
		zap.String("ref_no", e.RefNo),
		zap.String("to", to))
	return nil
}

func body(e events.Event) string {
	return fmt.Sprintf(`<p>Reference: <b>%s</b></p>
<p>Status: %s</p>
<p>%s</p>`, html.EscapeString(e.RefNo), html.EscapeString(e.Status), html.EscapeString(e.Detail))
}
